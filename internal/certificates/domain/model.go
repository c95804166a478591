package domain

const (
	StatusVerified = "VERIFIED"
	StatusRejected = "REJECTED"
	StatusPending  = "PENDING"
)

// MaxImageBytes bounds uploaded certificate images.
const MaxImageBytes = 8 << 20

// Result is the oracle's verdict on a certificate image. Extracted fields are
// nil when the oracle could not read them.
type Result struct {
	CandidateName      *string `json:"candidateName"`
	CourseName         *string `json:"courseName"`
	IssueDate          *string `json:"issueDate"`
	Issuer             *string `json:"issuer"`
	VerificationStatus string  `json:"verificationStatus" validate:"required,oneof=VERIFIED REJECTED PENDING"`
	ConfidenceScore    float64 `json:"confidenceScore" validate:"gte=0,lte=100"`
	Reason             string  `json:"reason"`
}

// FallbackResult is returned when the oracle fails.
var FallbackResult = Result{
	VerificationStatus: StatusRejected,
	ConfidenceScore:    0,
	Reason:             "AI Service Error: Could not process image.",
}

// VerifiedCertificate is a persisted VERIFIED result.
type VerifiedCertificate struct {
	ID         string `json:"id"`
	UserID     string `json:"userId"`
	UserName   string `json:"userName"`
	VerifiedAt string `json:"verifiedAt"`
	Result
}
