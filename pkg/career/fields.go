// Package career carries the business rules of the career application form:
// one rule per step, keyed by step index.
package career

// Field names referenced by the rules.
const (
	FieldFullName  = "full_name"
	FieldGender    = "gender"
	FieldBirthDate = "birth_date"
	FieldPhone     = "phone"
	FieldEmail     = "email"

	FieldPassportHas        = "passport_has"
	FieldPassportNo         = "passport_no"
	FieldPassportValidUntil = "passport_valid_until"
	FieldPassportPhoto      = "passport_photo"

	FieldDisability            = "disability"
	FieldDisabilityNote        = "disability_note"
	FieldDisabilityDoc         = "disability_doc"
	FieldMilitaryStatus        = "military_status"
	FieldMilitaryPostponeUntil = "military_postpone_until"
	FieldMilitaryPostponeDoc   = "military_postpone_doc"

	FieldCriminalRecord    = "criminal_record"
	FieldCriminalRecordDoc = "criminal_record_doc"

	FieldFamilyReunion              = "family_reunion"
	FieldChildrenCount              = "children_count"
	FieldHasSpouse                  = "has_spouse"
	FieldSpouseName                 = "spouse_name"
	FieldSpouseBirthDate            = "spouse_birth_date"
	FieldSpouseBirthPlace           = "spouse_birth_place"
	FieldSpousePhone                = "spouse_phone"
	FieldSpouseEmail                = "spouse_email"
	FieldSpousePassportHas          = "spouse_passport_has"
	FieldSpousePassportNo           = "spouse_passport_no"
	FieldSpousePassportValidUntil   = "spouse_passport_valid_until"
	FieldSpousePassportPhoto        = "spouse_passport_photo"
	FieldSpouseGermanCertificate    = "spouse_german_certificate"
	FieldChildAgeTemplate           = "child_age_{index}"
	FieldChildBirthDateTemplate     = "child_birth_date_{index}"
	FieldChildPassportHasTemplate   = "child_passport_has_{index}"
	FieldChildPassportNoTemplate    = "child_passport_no_{index}"
	FieldChildPassportValidTemplate = "child_passport_valid_until_{index}"
	FieldChildPassportPhotoTemplate = "child_passport_photo_{index}"

	FieldHasLanguageCertificate  = "has_language_certificate"
	FieldLanguageCertificateType = "language_certificate_type"
	FieldLanguageCertificateDoc  = "language_certificate_doc"
	FieldRecognitionStatus       = "recognition_status"
	FieldRecognitionState        = "recognition_state"
	FieldRecognitionAppliedAt    = "recognition_applied_at"
	FieldRecognitionReceivedAt   = "recognition_received_at"

	FieldChoice1 = "choice1"
	FieldChoice2 = "choice2"
	FieldChoice3 = "choice3"

	FieldConsentOK   = "consent_ok"
	FieldConsentDate = "consent_date"
	FieldConsentName = "consent_name"
)

// Option values shared by the definition and the rules.
const (
	Yes        = "yes"
	No         = "no"
	Has        = "has"
	HasNone    = "none"
	Male       = "male"
	Female     = "female"
	Deferred   = "deferred"
	InProgress = "in progress"
)

// Repeatable kinds.
const (
	KindChild      = "child"
	KindExperience = "experience"
	KindEducation  = "education"
)

// Limits recovered from the application model.
const (
	MaxChildren = 2
	MaxChildAge = 25
)
