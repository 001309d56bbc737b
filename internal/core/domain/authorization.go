package domain

// AuthorizationState is the normalized permission state exposed to
// subscribers. It collapses the provider's finer-grained statuses into
// the four values the application actually reacts to.
type AuthorizationState string

const (
	AuthorizationNotDetermined AuthorizationState = "not_determined"
	AuthorizationRestricted    AuthorizationState = "restricted"
	AuthorizationDenied        AuthorizationState = "denied"
	AuthorizationAuthorized    AuthorizationState = "authorized"
)

// ProviderStatus is the provider-native permission status. It keeps the
// provider's granularity (e.g. "always" vs "when in use") so the service
// can detect no-op transitions; it never reaches subscribers.
type ProviderStatus int

const (
	StatusNotDetermined ProviderStatus = iota
	StatusRestricted
	StatusDenied
	StatusAuthorizedAlways
	StatusAuthorizedWhenInUse
)

// String returns a log-friendly name for the status.
func (s ProviderStatus) String() string {
	switch s {
	case StatusNotDetermined:
		return "not_determined"
	case StatusRestricted:
		return "restricted"
	case StatusDenied:
		return "denied"
	case StatusAuthorizedAlways:
		return "authorized_always"
	case StatusAuthorizedWhenInUse:
		return "authorized_when_in_use"
	default:
		return "unknown"
	}
}

// IsAuthorized reports whether the status falls in the authorized bucket.
func (s ProviderStatus) IsAuthorized() bool {
	return s == StatusAuthorizedAlways || s == StatusAuthorizedWhenInUse
}

// AuthorizationFromStatus maps a provider-native status to the normalized
// AuthorizationState. ok is false for statuses the mapping does not
// recognize; the caller must leave its existing state untouched in that
// case rather than overwrite it with a default.
func AuthorizationFromStatus(s ProviderStatus) (AuthorizationState, bool) {
	switch s {
	case StatusNotDetermined:
		return AuthorizationNotDetermined, true
	case StatusRestricted:
		return AuthorizationRestricted, true
	case StatusDenied:
		return AuthorizationDenied, true
	case StatusAuthorizedAlways, StatusAuthorizedWhenInUse:
		return AuthorizationAuthorized, true
	default:
		return "", false
	}
}
