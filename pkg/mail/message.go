package mail

// Email kinds carried on the mail topic. The worker uses the kind only for
// logging; the subject and body are rendered before publishing so the worker
// stays a dumb pipe.
const (
	KindVerification    = "verification"
	KindApprovalRequest = "approval_request"
	KindApproved        = "approved"
	KindRejected        = "rejected"
)

// Email is the payload published to the mail topic and consumed by the
// mail worker.
type Email struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
	Kind    string `json:"kind"`
}
