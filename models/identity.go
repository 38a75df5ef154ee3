package models

// UnknownIP is the fallback when the client address cannot be resolved.
// Carts and order filtering degrade to whatever identity is left.
const UnknownIP = "unknown"

// ViewerIdentity scopes cart storage and order visibility. It is always
// passed by parameter into the cart, submission and filter layers --
// never looked up from ambient state.
type ViewerIdentity struct {
	DeviceID    string `json:"device_id"`
	ClientIP    string `json:"client_ip"`
	TableNumber string `json:"table_number"`
	IsStaff     bool   `json:"is_staff"`
}

// HasDevice reports whether a usable device ID is present.
func (v ViewerIdentity) HasDevice() bool {
	return v.DeviceID != "" && v.DeviceID != UnknownIP
}

// CartScope returns the (device, ip) pair used as the cart storage key.
// Missing parts collapse to "unknown" so the key is always well-formed.
func (v ViewerIdentity) CartScope() (string, string) {
	device := v.DeviceID
	if device == "" {
		device = UnknownIP
	}
	ip := v.ClientIP
	if ip == "" {
		ip = UnknownIP
	}
	return device, ip
}
