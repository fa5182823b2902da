package career

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-formwizard/pkg/form"
	"github.com/goliatone/go-formwizard/pkg/rules"
)

// Rules returns the step rule table of the application form. Steps 2 and 9
// only run the generic required check.
func Rules() rules.Set {
	return rules.Set{
		1:  PersonalInfo,
		2:  rules.None,
		3:  Passport,
		4:  DisabilityAndMilitary,
		5:  CriminalRecord,
		6:  Family,
		7:  LanguageAndRecognition,
		8:  JobPreferences,
		9:  rules.None,
		10: Consent,
	}
}

type checker struct {
	in    rules.Input
	today time.Time
	out   []rules.Violation
}

func newChecker(in rules.Input) *checker {
	today := in.Today
	if today.IsZero() {
		today = time.Now()
	}
	return &checker{in: in, today: rules.Day(today)}
}

func (c *checker) add(message string, fields ...string) {
	c.out = append(c.out, rules.Violate(message, fields...))
}

func (c *checker) value(name string) string {
	return form.StringValue(c.in.Fields, name)
}

func (c *checker) blank(name string) bool {
	return rules.Blank(c.value(name))
}

func (c *checker) radio(name string) string {
	if c.in.Fields == nil {
		return ""
	}
	return c.in.Fields.RadioValue(name)
}

func (c *checker) hasFile(name string) bool {
	return form.FileAttached(c.in.Fields, name)
}

func (c *checker) date(name string) (time.Time, bool) {
	return rules.ParseDate(c.value(name), c.today.Location())
}

// requireText flags name when it is blank.
func (c *checker) requireText(name, message string) {
	if c.blank(name) {
		c.add(message, name)
	}
}

// requireFile flags name when nothing is attached.
func (c *checker) requireFile(name, message string) {
	if !c.hasFile(name) {
		c.add(message, name)
	}
}

// PersonalInfo checks the birth date, the applicant's age and the phone and
// email formats.
func PersonalInfo(in rules.Input) []rules.Violation {
	c := newChecker(in)

	if !c.blank(FieldBirthDate) {
		birth, ok := c.date(FieldBirthDate)
		switch {
		case !ok:
			c.add("Birth date is not a valid date.", FieldBirthDate)
		case !birth.Before(c.today):
			c.add("Birth date must be before today.", FieldBirthDate)
		case !rules.IsAdult(birth, c.today):
			c.add("The applicant must be at least 18 years old.", FieldBirthDate)
		}
	}

	if phone := c.value(FieldPhone); phone != "" {
		if !rules.ValidPhoneChars(phone) {
			c.add("Invalid phone number format.", FieldPhone)
		} else if rules.PhoneDigits(phone) < rules.MinPhoneDigits {
			c.add(fmt.Sprintf("Phone number must contain at least %d digits.", rules.MinPhoneDigits), FieldPhone)
		}
	}

	if email := c.value(FieldEmail); email != "" && !rules.ValidEmail(email) {
		c.add("Invalid email address format.", FieldEmail)
	}
	return c.out
}

// Passport requires the ownership answer and, for passport holders, the
// number, a current expiry date and a photo.
func Passport(in rules.Input) []rules.Violation {
	c := newChecker(in)
	status := c.radio(FieldPassportHas)
	if status == "" {
		c.add("Passport status must be selected.", FieldPassportHas)
		return c.out
	}
	if status != Yes {
		return c.out
	}

	c.requireText(FieldPassportNo, "Passport number is required when a passport is declared.")
	c.checkExpiry(FieldPassportValidUntil,
		"Passport expiry date is required when a passport is declared.",
		"Passport expiry date is not a valid date.",
		"Passport expiry date cannot be in the past.")
	c.requireFile(FieldPassportPhoto, "Passport photo is required when a passport is declared.")
	return c.out
}

func (c *checker) checkExpiry(name, missing, invalid, expired string) {
	if c.blank(name) {
		c.add(missing, name)
		return
	}
	until, ok := c.date(name)
	switch {
	case !ok:
		c.add(invalid, name)
	case until.Before(c.today):
		c.add(expired, name)
	}
}

// DisabilityAndMilitary requires the disability answer with its evidence and,
// for male applicants, the military status with deferral evidence.
func DisabilityAndMilitary(in rules.Input) []rules.Violation {
	c := newChecker(in)
	switch c.radio(FieldDisability) {
	case "":
		c.add("Disability status must be selected.", FieldDisability)
	case Has:
		c.requireText(FieldDisabilityNote, "A description is required when a disability is declared.")
		c.requireFile(FieldDisabilityDoc, "A supporting document is required when a disability is declared.")
	}

	if c.radio(FieldGender) != Male {
		return c.out
	}
	c.requireText(FieldMilitaryStatus, "Military status is required for male applicants.")
	if c.value(FieldMilitaryStatus) == Deferred {
		c.requireText(FieldMilitaryPostponeUntil, "A deferral end date is required for deferred military service.")
		c.requireFile(FieldMilitaryPostponeDoc, "A deferral document is required for deferred military service.")
	}
	return c.out
}

// CriminalRecord requires the record answer and a document when a record is
// declared.
func CriminalRecord(in rules.Input) []rules.Violation {
	c := newChecker(in)
	switch c.radio(FieldCriminalRecord) {
	case "":
		c.add("Criminal record status must be selected.", FieldCriminalRecord)
	case Has:
		c.requireFile(FieldCriminalRecordDoc, "A criminal record document is required.")
	}
	return c.out
}

// Family requires the reunification answer. Applicants bringing family must
// state a children count within range, complete spouse details when a
// spouse is added and complete every child entry.
func Family(in rules.Input) []rules.Violation {
	c := newChecker(in)
	status := c.radio(FieldFamilyReunion)
	if status == "" {
		c.add("Family reunification status must be selected.", FieldFamilyReunion)
		return c.out
	}
	if status != Yes {
		return c.out
	}

	count := strings.TrimSpace(c.value(FieldChildrenCount))
	if count == "" {
		count = "0"
	}
	if n, err := strconv.Atoi(count); err != nil || n < 0 || n > MaxChildren {
		c.add(fmt.Sprintf("Number of children must be between 0 and %d.", MaxChildren), FieldChildrenCount)
	}

	if form.Checked(c.in.Fields, FieldHasSpouse) {
		c.spouse()
	}
	for _, index := range c.in.Indices(KindChild) {
		c.child(index)
	}
	return c.out
}

func (c *checker) spouse() {
	c.requireText(FieldSpouseName, "Spouse full name is required when a spouse is added.")
	c.requireText(FieldSpouseBirthDate, "Spouse birth date is required when a spouse is added.")
	c.requireText(FieldSpouseBirthPlace, "Spouse birth place is required when a spouse is added.")

	if c.blank(FieldSpousePhone) {
		c.add("Spouse phone is required when a spouse is added.", FieldSpousePhone)
	} else if !rules.ValidPhoneChars(c.value(FieldSpousePhone)) {
		c.add("Invalid spouse phone number format.", FieldSpousePhone)
	}

	if c.blank(FieldSpouseEmail) {
		c.add("Spouse email is required when a spouse is added.", FieldSpouseEmail)
	} else if !rules.ValidEmail(c.value(FieldSpouseEmail)) {
		c.add("Invalid spouse email address format.", FieldSpouseEmail)
	}

	switch c.value(FieldSpousePassportHas) {
	case "":
		c.add("Spouse passport status is required when a spouse is added.", FieldSpousePassportHas)
	case Yes:
		c.requireText(FieldSpousePassportNo, "Spouse passport number is required when the spouse has a passport.")
		c.requireText(FieldSpousePassportValidUntil, "Spouse passport expiry date is required when the spouse has a passport.")
		c.requireFile(FieldSpousePassportPhoto, "Spouse passport photo is required when the spouse has a passport.")
	}

	c.requireText(FieldSpouseGermanCertificate, "Spouse German certificate status is required when a spouse is added.")
}

func (c *checker) child(index int) {
	age := form.Indexed(FieldChildAgeTemplate, index)
	if raw := strings.TrimSpace(c.value(age)); raw != "" {
		if n, err := strconv.Atoi(raw); err != nil || n < 0 || n > MaxChildAge {
			c.add(fmt.Sprintf("Child %d: age must be between 0 and %d.", index, MaxChildAge), age)
		}
	}

	birth := form.Indexed(FieldChildBirthDateTemplate, index)
	if !c.blank(birth) {
		if d, ok := c.date(birth); !ok {
			c.add(fmt.Sprintf("Child %d: birth date is not a valid date.", index), birth)
		} else if d.After(c.today) {
			c.add(fmt.Sprintf("Child %d: birth date cannot be in the future.", index), birth)
		}
	}

	if c.value(form.Indexed(FieldChildPassportHasTemplate, index)) != Yes {
		return
	}
	c.requireText(form.Indexed(FieldChildPassportNoTemplate, index),
		fmt.Sprintf("Child %d: passport number is required when the child has a passport.", index))
	c.checkExpiry(form.Indexed(FieldChildPassportValidTemplate, index),
		fmt.Sprintf("Child %d: passport expiry date is required when the child has a passport.", index),
		fmt.Sprintf("Child %d: passport expiry date is not a valid date.", index),
		fmt.Sprintf("Child %d: passport expiry date cannot be in the past.", index))
	c.requireFile(form.Indexed(FieldChildPassportPhotoTemplate, index),
		fmt.Sprintf("Child %d: passport photo is required when the child has a passport.", index))
}

// LanguageAndRecognition requires certificate details for certificate
// holders and recognition details once recognition is granted or pending.
func LanguageAndRecognition(in rules.Input) []rules.Violation {
	c := newChecker(in)
	if c.radio(FieldHasLanguageCertificate) == Yes {
		c.requireText(FieldLanguageCertificateType, "Certificate type is required when a language certificate is declared.")
		c.requireFile(FieldLanguageCertificateDoc, "A certificate document is required when a language certificate is declared.")
	}

	switch c.radio(FieldRecognitionStatus) {
	case Yes, InProgress:
		c.requireText(FieldRecognitionState, "Recognition state is required when recognition is granted or in progress.")
		c.requireText(FieldRecognitionAppliedAt, "Recognition application date is required when recognition is granted or in progress.")
		c.requireText(FieldRecognitionReceivedAt, "Recognition received date is required when recognition is granted or in progress.")
	}
	return c.out
}

// JobPreferences requires three ranked choices that are pairwise distinct.
func JobPreferences(in rules.Input) []rules.Violation {
	c := newChecker(in)
	names := []string{FieldChoice1, FieldChoice2, FieldChoice3}

	var missing []string
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		v := strings.TrimSpace(c.value(name))
		if v == "" {
			missing = append(missing, name)
			continue
		}
		seen[v] = struct{}{}
	}
	if len(missing) > 0 {
		c.add("All three job preferences must be selected.", missing...)
		return c.out
	}
	if len(seen) != len(names) {
		c.add("The three job preferences must all be different.", names...)
	}
	return c.out
}

// Consent requires the consent box to be ticked. Forms without the box are
// not blocked.
func Consent(in rules.Input) []rules.Violation {
	c := newChecker(in)
	if c.in.Fields == nil {
		return nil
	}
	if f, ok := c.in.Fields.Field(FieldConsentOK); ok && !f.Checked {
		c.add("You must tick the consent box to submit the application.", FieldConsentOK)
	}
	return c.out
}
