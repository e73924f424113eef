package constants

import "strings"

// Field is one of the fixed MSDS classification categories.
type Field string

const (
	ProductName        Field = "Product Name"
	Supplier           Field = "Supplier"
	ChemicalName       Field = "Chemical Name"
	CASNumber          Field = "CAS Number"
	Hazards            Field = "Hazards"
	PhysicalProperties Field = "Physical Properties"
	ChemicalProperties Field = "Chemical Properties"
	SafetyInformation  Field = "Safety Information"
	Storage            Field = "Storage"
	Disposal           Field = "Disposal"
	PPE                Field = "PPE"
	FirstAid           Field = "First Aid"
)

const (
	// NotAvailable is the value of a field with no collected lines.
	NotAvailable = "N/A"
	// MaxFieldLines caps how many collected lines make up a field value.
	MaxFieldLines = 5
	// FieldDelimiter joins collected lines into a field value.
	FieldDelimiter = " | "
)

var allFields = []Field{
	ProductName,
	Supplier,
	ChemicalName,
	CASNumber,
	Hazards,
	PhysicalProperties,
	ChemicalProperties,
	SafetyInformation,
	Storage,
	Disposal,
	PPE,
	FirstAid,
}

var koreanLabels = map[Field]string{
	ProductName:        "제품명",
	Supplier:           "공급자",
	ChemicalName:       "화학명",
	CASNumber:          "CAS 번호",
	Hazards:            "위험성",
	PhysicalProperties: "물리적 성질",
	ChemicalProperties: "화학적 성질",
	SafetyInformation:  "안전 정보",
	Storage:            "보관",
	Disposal:           "폐기",
	PPE:                "개인보호장비",
	FirstAid:           "응급처치",
}

// AllFields returns the fixed fields in presentation order.
func AllFields() []Field {
	out := make([]Field, len(allFields))
	copy(out, allFields)
	return out
}

func AsStringSlice() []string {
	result := make([]string, len(allFields))
	for i, f := range allFields {
		result[i] = string(f)
	}
	return result
}

// KoreanLabel returns the localized label paired with f.
func (f Field) KoreanLabel() string {
	return koreanLabels[f]
}

// BilingualLabel renders f as "English (한국어)".
func (f Field) BilingualLabel() string {
	if ko := koreanLabels[f]; ko != "" {
		return string(f) + " (" + ko + ")"
	}
	return string(f)
}

// ParseField resolves an English or Korean label, case-insensitively.
func ParseField(input string) (Field, bool) {
	normalized := strings.ToLower(strings.TrimSpace(input))
	if normalized == "" {
		return "", false
	}
	for _, f := range allFields {
		if normalized == strings.ToLower(string(f)) || normalized == koreanLabels[f] {
			return f, true
		}
	}
	return "", false
}
