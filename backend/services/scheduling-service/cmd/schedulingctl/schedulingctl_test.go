package main

import (
	"bytes"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jepierre88/coins-control/backend/shared/go-models"
	"github.com/Jepierre88/coins-control/backend/shared/go-testhelpers"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestUnlockCommand(t *testing.T) {
	lock := testhelpers.NewFakeAPI(t)
	lock.HandleJSON(http.MethodPost, "/v3/lock/unlock", http.StatusOK, map[string]any{"errcode": 0})

	out, err := run(t, "unlock", "--sciener-url", lock.URL(),
		"--client-id", "7", "--access-token", "tok", "--lock-id", "42")
	require.NoError(t, err)
	assert.Equal(t, "unlock ok\n", out)

	calls := lock.Calls(http.MethodPost, "/v3/lock/unlock")
	require.Len(t, calls, 1)
	assert.Equal(t, "42", calls[0].Form.Get("lockId"))
	assert.Equal(t, "tok", calls[0].Form.Get("accessToken"))
}

func TestUnlockCommandVendorRejects(t *testing.T) {
	lock := testhelpers.NewFakeAPI(t)
	lock.HandleJSON(http.MethodPost, "/v3/lock/unlock", http.StatusOK, map[string]any{"errcode": -3003, "errmsg": "gateway offline"})

	_, err := run(t, "unlock", "--sciener-url", lock.URL(),
		"--client-id", "7", "--access-token", "tok", "--lock-id", "42")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "errcode -3003: gateway offline")
}

func TestUnlockCommandRequiresCredentials(t *testing.T) {
	_, err := run(t, "unlock", "--sciener-url", "http://127.0.0.1:1", "--lock-id", "42")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access-token")
}

func TestPasscodeDeleteCommand(t *testing.T) {
	lock := testhelpers.NewFakeAPI(t)
	lock.HandleJSON(http.MethodPost, "/v3/keyboardPwd/delete", http.StatusOK, map[string]any{"errcode": 0})

	out, err := run(t, "passcode", "delete", "--sciener-url", lock.URL(),
		"--client-id", "7", "--access-token", "tok", "--lock-id", "42", "--pwd-id", "999")
	require.NoError(t, err)
	assert.Equal(t, "passcode delete ok\n", out)

	form := lock.Calls(http.MethodPost, "/v3/keyboardPwd/delete")[0].Form
	assert.Equal(t, "999", form.Get("keyboardPwdId"))
	assert.Equal(t, "2", form.Get("deleteType"))
}

func TestPasscodeDeleteRejectsBadID(t *testing.T) {
	lock := testhelpers.NewFakeAPI(t)
	_, err := run(t, "passcode", "delete", "--sciener-url", lock.URL(),
		"--client-id", "7", "--access-token", "tok", "--lock-id", "42", "--pwd-id", "-1")
	require.Error(t, err)
	assert.Empty(t, lock.Requests())
}

func TestPrintLedgerStatus(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, printLedgerStatus(&out, map[models.PasscodeRegistrationStatus]int{
		models.PasscodeRegistrationOrphaned:  2,
		models.PasscodeRegistrationFinalized: 40,
		models.PasscodeRegistrationRevoked:   1,
	}))
	assert.Equal(t,
		"STATUS     COUNT\n"+
			"FINALIZED  40\n"+
			"ORPHANED   2\n"+
			"REVOKED    1\n"+
			"TOTAL      43\n",
		out.String())
}
