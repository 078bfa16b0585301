package models

import "github.com/PuerkitoBio/goquery"

// Canonical field keys shared by extraction rules and records.
// Every source populates a subset; the rest stay at the empty default.
const (
	FieldSourceID       = "source_id"
	FieldName           = "name"
	FieldSchoolType     = "school_type"
	FieldAddress        = "address"
	FieldPostalCode     = "postal_code"
	FieldCity           = "city"
	FieldDistrict       = "district"
	FieldPhone          = "phone"
	FieldFax            = "fax"
	FieldEmail          = "email"
	FieldWebsite        = "website"
	FieldPrincipal      = "principal"
	FieldAdditionalInfo = "additional_info"
)

// fieldOrder is the canonical column order of the output artifact.
var fieldOrder = []string{
	FieldSourceID,
	FieldName,
	FieldSchoolType,
	FieldAddress,
	FieldPostalCode,
	FieldCity,
	FieldDistrict,
	FieldPhone,
	FieldFax,
	FieldEmail,
	FieldWebsite,
	FieldPrincipal,
	FieldAdditionalInfo,
}

// columnTitles maps canonical field keys to human-readable CSV headers.
var columnTitles = map[string]string{
	FieldSourceID:       "School ID",
	FieldName:           "School Name",
	FieldSchoolType:     "School Type",
	FieldAddress:        "Address",
	FieldPostalCode:     "Postal Code",
	FieldCity:           "City",
	FieldDistrict:       "District",
	FieldPhone:          "Phone",
	FieldFax:            "Fax",
	FieldEmail:          "Email",
	FieldWebsite:        "Website",
	FieldPrincipal:      "Principal",
	FieldAdditionalInfo: "Additional Info",
}

// SchoolRecord is the canonical entity, one per discovered institution.
// All fields default to the empty string.
type SchoolRecord struct {
	SourceID       string `json:"source_id"`
	Name           string `json:"name"`
	SchoolType     string `json:"school_type"`
	Address        string `json:"address"`
	PostalCode     string `json:"postal_code"`
	City           string `json:"city"`
	District       string `json:"district"`
	Phone          string `json:"phone"`
	Fax            string `json:"fax"`
	Email          string `json:"email"`
	Website        string `json:"website"`
	Principal      string `json:"principal"`
	AdditionalInfo string `json:"additional_info"`
}

// Columns returns the CSV header row in canonical order.
func Columns() []string {
	cols := make([]string, len(fieldOrder))
	for i, f := range fieldOrder {
		cols[i] = columnTitles[f]
	}
	return cols
}

// Row returns the record's values in canonical column order.
func (r SchoolRecord) Row() []string {
	fields := r.Fields()
	row := make([]string, len(fieldOrder))
	for i, f := range fieldOrder {
		row[i] = fields[f]
	}
	return row
}

// Fields returns the record as a field mapping with every key present.
func (r SchoolRecord) Fields() map[string]string {
	return map[string]string{
		FieldSourceID:       r.SourceID,
		FieldName:           r.Name,
		FieldSchoolType:     r.SchoolType,
		FieldAddress:        r.Address,
		FieldPostalCode:     r.PostalCode,
		FieldCity:           r.City,
		FieldDistrict:       r.District,
		FieldPhone:          r.Phone,
		FieldFax:            r.Fax,
		FieldEmail:          r.Email,
		FieldWebsite:        r.Website,
		FieldPrincipal:      r.Principal,
		FieldAdditionalInfo: r.AdditionalInfo,
	}
}

// EmptyFields returns a raw field mapping with every canonical key set
// to its empty default. Extraction fills it in; a missing element never
// leaves a key absent.
func EmptyFields() map[string]string {
	m := make(map[string]string, len(fieldOrder))
	for _, f := range fieldOrder {
		m[f] = ""
	}
	return m
}

// FromFields builds a SchoolRecord from a raw field mapping.
// Unknown keys are ignored; missing keys default to the empty string.
func FromFields(fields map[string]string) SchoolRecord {
	return SchoolRecord{
		SourceID:       fields[FieldSourceID],
		Name:           fields[FieldName],
		SchoolType:     fields[FieldSchoolType],
		Address:        fields[FieldAddress],
		PostalCode:     fields[FieldPostalCode],
		City:           fields[FieldCity],
		District:       fields[FieldDistrict],
		Phone:          fields[FieldPhone],
		Fax:            fields[FieldFax],
		Email:          fields[FieldEmail],
		Website:        fields[FieldWebsite],
		Principal:      fields[FieldPrincipal],
		AdditionalInfo: fields[FieldAdditionalInfo],
	}
}

// UnitKind tags how an extraction unit is resolved into a record.
type UnitKind string

const (
	// UnitIndirect carries an identifier that must be resolved with a
	// follow-up detail-page fetch.
	UnitIndirect UnitKind = "indirect"
	// UnitDirect carries its own document fragment and needs no
	// further fetch.
	UnitDirect UnitKind = "direct"
)

// Unit is one candidate record yielded by an enumerator.
type Unit struct {
	Kind UnitKind
	ID   string // source-local identifier (indirect units)
	Name string // display name from the listing page, may be empty

	// Fragment holds the card sub-structure for direct units.
	Fragment *goquery.Selection
}
