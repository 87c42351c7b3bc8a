package message

const (
	InvalidUser         = "Invalid username/password."
	ServerError         = "Something went wrong."
	InvalidInput        = "Invalid input."
	EnvErrFmt           = "environment variable is not set: %s"
	NotFound            = "Resource not found."
	VersionRequired     = "An If-Match header with the current ETag is required."
	VersionMismatch     = "The resource was modified by someone else. Reload and try again."
	DuplicateEntry      = "A record with the same identifier already exists."
	RecordInUse         = "The record is still referenced by other records."
	ClientScopeConflict = "The referenced record belongs to a different client."
)
