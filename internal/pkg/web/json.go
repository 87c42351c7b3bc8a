package web

const (
	HeaderContentType = "Content-Type"
	HeaderETag        = "ETag"
	HeaderIfMatch     = "If-Match"
	HeaderLocation    = "Location"
	MimeJSON          = "application/json"
	MimeCSV           = "text/csv"
)
