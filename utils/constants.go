package utils

// Application constants
const (
	// Application name
	AppName = "Brown Girl Club"

	// API version
	APIVersion = "v1"

	// Default port
	DefaultPort = "8080"

	// Default database host
	DefaultDBHost = "localhost"

	// Default database port
	DefaultDBPort = "5432"

	// Default database name
	DefaultDBName = "browngirlclub"

	// Default database user
	DefaultDBUser = "postgres"

	// Default database password
	DefaultDBPassword = "postgres"

	// JWT token expiration (24 hours)
	JWTExpiration = "24h"

	// Invite token expiration (7 days)
	InviteExpiration = "168h"

	// Default redemption location when the counter doesn't send one
	DefaultLocation = "Main Location"

	// Default redemption history page size
	DefaultHistoryLimit = 50

	// Default pagination limit
	DefaultPaginationLimit = 10

	// Maximum pagination limit
	MaxPaginationLimit = 100

	// Minimum password length
	MinPasswordLength = 8

	// Maximum password length
	MaxPasswordLength = 32

	// Minimum name length
	MinNameLength = 2

	// Maximum name length
	MaxNameLength = 50

	// Today's per-user coffee count at which staff get a heads-up notice
	CoffeeNoticeThreshold = 5
)

// Error messages
const (
	// Authentication errors
	ErrInvalidCredentials = "Invalid email or password"
	ErrInvalidToken       = "Invalid or expired token"
	ErrUnauthorized       = "Unauthorized access"
	ErrForbidden          = "Access forbidden"

	// Redemption denial reasons
	ErrNoActiveSubscription = "No active subscription found"
	ErrSubscriptionExpired  = "Subscription has expired"
	ErrInvalidPlanType      = "Invalid plan type"
	ErrCheckingUsage        = "Error checking usage"
	ErrValidationSystem     = "System error during validation"

	// Validation errors
	ErrInvalidEmail      = "Invalid email format"
	ErrInvalidItemType   = "Invalid itemType. Must be: coffee, food, or dessert"
	ErrInvalidPagination = "Invalid pagination parameters"

	// Database errors
	ErrRecordNotFound = "Record not found"
	ErrDuplicateEntry = "Duplicate entry"
	ErrDBConnection   = "Database connection error"

	// Server errors
	ErrInternalServer     = "Internal server error"
	ErrServiceUnavailable = "Service unavailable"
)

// Success messages
const (
	MsgLoginSuccess  = "Login successful"
	MsgLogoutSuccess = "Logout successful"
	MsgJoinSuccess   = "Membership created successfully"

	MsgCreateSuccess = "Created successfully"
	MsgUpdateSuccess = "Updated successfully"
	MsgDeleteSuccess = "Deleted successfully"
)
