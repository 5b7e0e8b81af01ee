package nsh

// Return values carried in reply messages.
// They match the engine's API error numbers, so that they can be rendered by api.VPPApiError.
const (
	RetvalOK           int32 = 0
	RetvalUnspecified  int32 = -1
	RetvalNoSuchEntry  int32 = -6
	RetvalInvalidValue int32 = -73
)
