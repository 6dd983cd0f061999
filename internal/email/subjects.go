package email

const (
	subjectReferralAssignedFmt  = "New referral: %s in %s"
	subjectReferralAcceptedFmt  = "Your agent %s is ready to help"
	subjectReferralDeclinedFmt  = "Referral declined by %s"
	subjectReferralExpiredFmt   = "Referral expired without a response (%s)"
	subjectConsultationReceived = "We received your consultation request"
)
