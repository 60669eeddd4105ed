package constants

const (
	ROLE_ADMIN   = "ADMIN"
	ROLE_STUDENT = "STUDENT"
)

const (
	DATA_INPUT_IS_NOT_NUMBER   = "Input value is not a number"
	ERROR_PARSE_DATA_TO_LOCALS = "Failed to read request data"
	ERROR_INTERNAL_ERROR       = "Internal server error"
	INVALID_INPUT              = "Invalid input"
	NOT_ADMIN                  = "Only administrators can do this"
	NOT_PERMISSION             = "You do not have permission for this resource"
	MISSING_LOGIN_INPUT        = "Email and password are required"
	INVALID_CREDENTIALS        = "Invalid credentials"
	EMAIL_ALREADY_EXISTS       = "Email already exists"
	MISSING_TOKEN              = "Missing token"
	INVALID_TOKEN              = "Invalid token"
	NOT_FOUND                  = "Resource not found"
	REQUEST_REJECTED           = "Request could not be completed"
)

const DEFAULT_ADMIN_EMAIL = "admin@hostel.com"

// Redis channel carrying occupancy events.
const OCCUPANCY_CHANNEL = "rooms:occupancy"
