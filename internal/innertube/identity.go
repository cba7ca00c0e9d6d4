package innertube

// Identity is one impersonated application context used to query the
// player endpoint. Identities are static, read-only data; request
// shaping derives entirely from the fields below.
type Identity struct {
	// Name is the registry alias used in diagnostics (e.g. "android"),
	// distinct from the Innertube clientName ("ANDROID").
	Name       string
	ClientName string
	Version    string
	UserAgent  string
	APIKey     string

	DeviceMake        string
	DeviceModel       string
	OSName            string
	OSVersion         string
	AndroidSDKVersion int

	// RequiresDecipher marks identities whose stream URLs commonly
	// arrive cipher-protected. Such identities are ordered last.
	RequiresDecipher bool
}

// Identities returns the fallback sequence in trial order. The mobile
// app identities go first, the web identity last: web responses are
// the ones most likely to need signature deciphering or to be
// throttled.
func Identities() []Identity {
	return []Identity{AndroidIdentity, IOSIdentity, WebIdentity}
}
