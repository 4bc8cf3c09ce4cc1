package utils

// ClientIDType tells whether a ClientIdentifier holds an IP or a device id.
type ClientIDType string

const (
	ClientIDTypeIP       ClientIDType = "ip"
	ClientIDTypeDeviceID ClientIDType = "device_id"
)
