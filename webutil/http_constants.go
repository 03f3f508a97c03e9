package webutil

const (
	// Header Keys
	HeaderContentType   = "Content-Type"
	HeaderAuthorization = "Authorization"

	// Content Types
	ContentTypeJSONUTF8 = "application/json; charset=utf-8"

	BearerPrefix = "Bearer "
)
