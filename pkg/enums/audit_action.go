package enums

// AuditAction names a recordable back-office event.
type AuditAction string

const (
	AuditActionLogin             AuditAction = "LOGIN"
	AuditActionLogout            AuditAction = "LOGOUT"
	AuditActionProductCreate     AuditAction = "PRODUCT_CREATE"
	AuditActionProductUpdate     AuditAction = "PRODUCT_UPDATE"
	AuditActionProductDelete     AuditAction = "PRODUCT_DELETE"
	AuditActionProductBulkUpload AuditAction = "PRODUCT_BULK_UPLOAD"
	AuditActionColumnCreate      AuditAction = "COLUMN_CREATE"
	AuditActionColumnUpdate      AuditAction = "COLUMN_UPDATE"
	AuditActionColumnDelete      AuditAction = "COLUMN_DELETE"
	AuditActionUserCreate        AuditAction = "USER_CREATE"
	AuditActionUserUpdate        AuditAction = "USER_UPDATE"
	AuditActionUserDelete        AuditAction = "USER_DELETE"
	AuditActionPasswordChange    AuditAction = "PASSWORD_CHANGE"
)

// String implements fmt.Stringer.
func (a AuditAction) String() string {
	return string(a)
}
