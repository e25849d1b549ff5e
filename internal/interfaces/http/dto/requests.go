package dto

// CreateStudentRequest registers a student
type CreateStudentRequest struct {
	CentreID      string `json:"centre_id" binding:"required,uuid"`
	Name          string `json:"name" binding:"required,min=2,max=120"`
	Phone         string `json:"phone" binding:"required,min=7,max=15"`
	Email         string `json:"email" binding:"omitempty,email"`
	GuardianName  string `json:"guardian_name" binding:"omitempty,max=120"`
	GuardianPhone string `json:"guardian_phone" binding:"omitempty,min=7,max=15"`
	Address       string `json:"address" binding:"omitempty,max=500"`
}

// CreateCentreRequest registers a centre
type CreateCentreRequest struct {
	Name               string `json:"name" binding:"required,min=2,max=120"`
	Code               string `json:"code" binding:"required,alphanum,min=2,max=10"`
	Address            string `json:"address" binding:"omitempty,max=500"`
	Phone              string `json:"phone" binding:"omitempty,min=7,max=15"`
	OpeningCashBalance string `json:"opening_cash_balance" binding:"omitempty"`
}

// SetTransferPasswordRequest sets a centre's cash transfer password
type SetTransferPasswordRequest struct {
	Password string `json:"password" binding:"required,min=6,max=72"`
}

// SetSalesTargetRequest creates a revenue target for a period
type SetSalesTargetRequest struct {
	PeriodStart  string `json:"period_start" binding:"required,datetime=2006-01-02"`
	PeriodEnd    string `json:"period_end" binding:"required,datetime=2006-01-02"`
	TargetAmount string `json:"target_amount" binding:"required"`
}

// CreateCourseRequest registers a course
type CreateCourseRequest struct {
	Name           string   `json:"name" binding:"required,min=2,max=120"`
	Code           string   `json:"code" binding:"required,min=2,max=20"`
	BaseFees       string   `json:"base_fees" binding:"required"`
	DurationMonths int      `json:"duration_months" binding:"required,min=1,max=60"`
	IsBoard        bool     `json:"is_board"`
	MonthlyFee     string   `json:"monthly_fee" binding:"omitempty"`
	Subjects       []string `json:"subjects" binding:"omitempty,dive,min=1"`
}

// UpdateCourseFeesRequest changes a course's base fee
type UpdateCourseFeesRequest struct {
	BaseFees string `json:"base_fees" binding:"required"`
}

// CreateExamTagRequest registers an exam tag
type CreateExamTagRequest struct {
	Name string `json:"name" binding:"required,min=2,max=60"`
}

// CreateAdmissionRequest enrolls a student into a course
type CreateAdmissionRequest struct {
	StudentID            string `json:"student_id" binding:"required,uuid"`
	CourseID             string `json:"course_id" binding:"required,uuid"`
	CentreID             string `json:"centre_id" binding:"required,uuid"`
	ExamTagID            string `json:"exam_tag_id" binding:"omitempty,uuid"`
	AcademicSession      string `json:"academic_session" binding:"required,max=20"`
	FeeWaiver            string `json:"fee_waiver" binding:"omitempty"`
	DownPayment          string `json:"down_payment" binding:"omitempty"`
	DownPaymentMethod    string `json:"down_payment_method" binding:"omitempty"`
	NumberOfInstallments int    `json:"number_of_installments" binding:"required,min=1,max=36"`
	AdmissionDate        string `json:"admission_date" binding:"omitempty,datetime=2006-01-02"`
	CourseStartDate      string `json:"course_start_date" binding:"omitempty,datetime=2006-01-02"`
}

// RecordPaymentRequest records money against one installment. The
// installment number rides on the URL; 0 addresses the down payment.
type RecordPaymentRequest struct {
	PaidAmount    string `json:"paid_amount" binding:"required"`
	Method        string `json:"method" binding:"required"`
	TransactionID string `json:"transaction_id" binding:"omitempty,max=100"`
	ChequeNumber  string `json:"cheque_number" binding:"omitempty,max=30"`
	ChequeDate    string `json:"cheque_date" binding:"omitempty,datetime=2006-01-02"`
	Remarks       string `json:"remarks" binding:"omitempty,max=500"`
}

// DivideInstallmentsRequest redivides the outstanding balance
type DivideInstallmentsRequest struct {
	NumberOfInstallments int `json:"number_of_installments" binding:"required,min=1,max=36"`
}

// TransferCourseRequest moves an admission onto another course
type TransferCourseRequest struct {
	NewCourseID          string `json:"new_course_id" binding:"required,uuid"`
	FeeWaiver            string `json:"fee_waiver" binding:"omitempty"`
	NumberOfInstallments int    `json:"number_of_installments" binding:"required,min=1,max=36"`
}

// GenerateMonthlyBillRequest bills a board admission from a month forward
type GenerateMonthlyBillRequest struct {
	FromMonth string   `json:"from_month" binding:"required,datetime=2006-01"`
	Subjects  []string `json:"subjects" binding:"required,min=1,dive,min=1"`
}

// PayMonthlyBillRequest settles one billed month
type PayMonthlyBillRequest struct {
	Month  string `json:"month" binding:"required,datetime=2006-01"`
	Method string `json:"method" binding:"required"`
}

// AdjustFeesRequest overrides an admission's authoritative totals. A
// positive installment count also redivides the adjusted outstanding
// balance over that many fresh installments.
type AdjustFeesRequest struct {
	TotalFees            string `json:"total_fees" binding:"required"`
	TotalPaid            string `json:"total_paid" binding:"required"`
	NumberOfInstallments int    `json:"number_of_installments" binding:"omitempty,min=1,max=36"`
	Remarks              string `json:"remarks" binding:"required,max=500"`
}

// RejectChequeRequest bounces or voids a cheque with a reason
type RejectChequeRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

// InitiateTransferRequest dispatches cash between centres
type InitiateTransferRequest struct {
	FromCentreID     string `json:"from_centre_id" binding:"required,uuid"`
	ToCentreID       string `json:"to_centre_id" binding:"required,uuid"`
	Amount           string `json:"amount" binding:"required"`
	TransferPassword string `json:"transfer_password" binding:"required"`
	Remarks          string `json:"remarks" binding:"omitempty,max=500"`
}

// ConfirmReceiveRequest acknowledges a transfer with the courier's password
type ConfirmReceiveRequest struct {
	Password string `json:"password" binding:"required,max=12"`
}

// CancelTransferRequest recalls or refuses an in-transit transfer
type CancelTransferRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}
