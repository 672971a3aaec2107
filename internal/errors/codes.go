package errors

// Error code constants returned in API error envelopes.
// Format: CATEGORY_SPECIFIC_DETAIL
// The storefront maps these codes to display messages.

const (
	// ==================== Authentication (AUTH_) ====================
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS"
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"
	AuthTokenRevoked       = "AUTH_TOKEN_REVOKED"
	AuthEmailAlreadyExists = "AUTH_EMAIL_EXISTS"
	AuthAccountBlocked     = "AUTH_ACCOUNT_BLOCKED"

	// ==================== Authorization (AUTHZ_) ====================
	AuthzForbidden    = "AUTHZ_FORBIDDEN"
	AuthzRoleNotFound = "AUTHZ_ROLE_NOT_FOUND"
	AuthzAdminOnly    = "AUTHZ_ADMIN_ONLY"

	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput  = "VALIDATION_INVALID_INPUT"
	ValidationInvalidID     = "VALIDATION_INVALID_ID"
	ValidationInvalidFormat = "VALIDATION_INVALID_FORMAT"
	ValidationInvalidRange  = "VALIDATION_INVALID_RANGE"
	ValidationRequired      = "VALIDATION_REQUIRED"

	// ==================== Resources (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS"
	ResourceConflict      = "RESOURCE_CONFLICT"

	// ==================== Catalog (PRODUCT_) ====================
	ProductNotFound     = "PRODUCT_NOT_FOUND"
	ProductSKUExists    = "PRODUCT_SKU_EXISTS"
	ProductOutOfStock   = "PRODUCT_OUT_OF_STOCK"
	ProductInactive     = "PRODUCT_INACTIVE"
	ProductInvalidSize  = "PRODUCT_INVALID_SIZE"
	ProductImageMissing = "PRODUCT_IMAGE_MISSING"

	// ==================== Cart (CART_) ====================
	CartLineNotFound = "CART_LINE_NOT_FOUND"
	CartEmpty        = "CART_EMPTY"
	CartTokenMissing = "CART_TOKEN_MISSING"

	// ==================== Orders (ORDER_) ====================
	OrderNotFound      = "ORDER_NOT_FOUND"
	OrderInvalidStatus = "ORDER_INVALID_STATUS"

	// ==================== Coupons (COUPON_) ====================
	CouponNotFound     = "COUPON_NOT_FOUND"
	CouponCodeExists   = "COUPON_CODE_EXISTS"
	CouponInactive     = "COUPON_INACTIVE"
	CouponExpired      = "COUPON_EXPIRED"
	CouponExhausted    = "COUPON_EXHAUSTED"
	CouponMinPurchase  = "COUPON_MIN_PURCHASE_NOT_MET"
	CouponInvalidType  = "COUPON_INVALID_TYPE"
	CouponInvalidValue = "COUPON_INVALID_VALUE"

	// ==================== Customers (CUSTOMER_) ====================
	CustomerNotFound = "CUSTOMER_NOT_FOUND"

	// ==================== Settings (SETTING_) ====================
	SettingNotFound = "SETTING_NOT_FOUND"

	// ==================== Upload (UPLOAD_) ====================
	UploadInvalidType = "UPLOAD_INVALID_TYPE"
	UploadTooLarge    = "UPLOAD_TOO_LARGE"

	// ==================== Internal (INTERNAL_) ====================
	InternalServerError = "INTERNAL_SERVER_ERROR"
	InternalDatabase    = "INTERNAL_DATABASE_ERROR"
	InternalExternalAPI = "INTERNAL_EXTERNAL_API_ERROR"
)
