package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Jepierre88/coins-control/backend/services/scheduling-service/internal/utils/sciener"
)

type lockFlags struct {
	baseURL string
	timeout time.Duration
	sciener.LockCredentials
}

func (f *lockFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.baseURL, "sciener-url", os.Getenv("SCIENER_API_BASE_URL"), "lock vendor base URL")
	cmd.Flags().DurationVar(&f.timeout, "timeout", 15*time.Second, "vendor request timeout")
	cmd.Flags().StringVar(&f.ClientID, "client-id", "", "vendor client id")
	cmd.Flags().StringVar(&f.AccessToken, "access-token", "", "vendor access token")
	cmd.Flags().StringVar(&f.LockID, "lock-id", "", "lock id")
	_ = cmd.MarkFlagRequired("client-id")
	_ = cmd.MarkFlagRequired("access-token")
	_ = cmd.MarkFlagRequired("lock-id")
}

func (f *lockFlags) client() (*sciener.Client, error) {
	return sciener.NewClient(f.baseURL, f.timeout)
}

func vendorResult(cmd *cobra.Command, action string, res *sciener.Result, err error) error {
	if err != nil {
		return fmt.Errorf("%s: %w", action, err)
	}
	if res.Failed() {
		return fmt.Errorf("%s rejected by vendor: errcode %d: %s", action, res.Errcode, res.Errmsg)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s ok\n", action)
	return nil
}

func unlockCmd() *cobra.Command {
	var flags lockFlags
	cmd := &cobra.Command{
		Use:   "unlock",
		Short: "Open a lock remotely through its gateway",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := flags.client()
			if err != nil {
				return err
			}
			res, err := client.Unlock(cmd.Context(), sciener.UnlockArgs{LockCredentials: flags.LockCredentials})
			return vendorResult(cmd, "unlock", res, err)
		},
	}
	flags.register(cmd)
	return cmd
}

func passcodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "passcode",
		Short: "Manage vendor passcodes by hand",
	}

	var (
		flags lockFlags
		pwdID int64
	)
	del := &cobra.Command{
		Use:   "delete",
		Short: "Revoke a passcode on the lock",
		RunE: func(cmd *cobra.Command, args []string) error {
			if pwdID <= 0 {
				return fmt.Errorf("--pwd-id must be positive")
			}
			client, err := flags.client()
			if err != nil {
				return err
			}
			res, err := client.DeletePasscode(cmd.Context(), sciener.DeletePasscodeArgs{
				LockCredentials: flags.LockCredentials,
				KeyboardPwdID:   pwdID,
			})
			return vendorResult(cmd, "passcode delete", res, err)
		},
	}
	flags.register(del)
	del.Flags().Int64Var(&pwdID, "pwd-id", 0, "vendor keyboardPwdId to revoke")
	_ = del.MarkFlagRequired("pwd-id")

	cmd.AddCommand(del)
	return cmd
}
