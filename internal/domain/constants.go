package domain

const (
	RoleCustomer = "customer"
	RoleStaff    = "staff"
	RoleAdmin    = "admin"
)

const (
	JobStatusNew        = "new"
	JobStatusRead       = "read"
	JobStatusProcessing = "processing"
	JobStatusDone       = "done"
)

const (
	PaymentStatusUnpaid = "unpaid"
	PaymentStatusPaid   = "paid"
)

const (
	TxTypeDeposit = "deposit"
	TxTypeBonus   = "bonus"
	TxTypePayment = "payment"
)

const (
	VerificationUnverified = "unverified"
	VerificationPending    = "pending"
	VerificationVerified   = "verified"
	VerificationRejected   = "rejected"
)

const (
	RegistrationPending  = "pending"
	RegistrationApproved = "approved"
	RegistrationRejected = "rejected"
)

const (
	ApplicationPending  = "pending"
	ApplicationAccepted = "accepted"
	ApplicationRejected = "rejected"
)

const (
	AttendanceCheckIn  = "check-in"
	AttendanceCheckOut = "check-out"
)
