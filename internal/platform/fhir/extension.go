package fhir

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// StringExtension builds an extension carrying valueString.
func StringExtension(url, value string) Extension {
	return Extension{URL: url, ValueString: &value}
}

// IntegerExtension builds an extension carrying valueInteger.
func IntegerExtension(url string, value int) Extension {
	return Extension{URL: url, ValueInteger: &value}
}

// DecimalExtension builds an extension carrying valueDecimal.
func DecimalExtension(url string, value float64) Extension {
	return Extension{URL: url, ValueDecimal: &value}
}

// BooleanExtension builds an extension carrying valueBoolean.
func BooleanExtension(url string, value bool) Extension {
	return Extension{URL: url, ValueBoolean: &value}
}

// FindExtension returns the first extension whose url matches exactly.
func FindExtension(exts []Extension, url string) (Extension, bool) {
	for _, ext := range exts {
		if ext.URL == url {
			return ext, true
		}
	}
	return Extension{}, false
}

// Value returns whichever value[x] field is populated, or nil.
func (e Extension) Value() interface{} {
	switch {
	case e.ValueString != nil:
		return *e.ValueString
	case e.ValueInteger != nil:
		return *e.ValueInteger
	case e.ValueDecimal != nil:
		return *e.ValueDecimal
	case e.ValueBoolean != nil:
		return *e.ValueBoolean
	case e.ValueURL != nil:
		return *e.ValueURL
	case e.ValueQuantity != nil:
		return *e.ValueQuantity
	case e.ValueAttachment != nil:
		return *e.ValueAttachment
	}
	return nil
}

// StringValue returns the extension value rendered as a string. Integers are
// formatted in base 10, other non-string values yield "".
func (e Extension) StringValue() string {
	switch {
	case e.ValueString != nil:
		return *e.ValueString
	case e.ValueURL != nil:
		return *e.ValueURL
	case e.ValueInteger != nil:
		return strconv.Itoa(*e.ValueInteger)
	}
	return ""
}

// ExtensionString looks up url and returns its string value, "" when absent.
func ExtensionString(exts []Extension, url string) string {
	ext, ok := FindExtension(exts, url)
	if !ok {
		return ""
	}
	return ext.StringValue()
}

// URLSuffix returns the text after the last "/" of an extension url.
func URLSuffix(url string) string {
	if i := strings.LastIndex(url, "/"); i >= 0 {
		return url[i+1:]
	}
	return url
}

// KebabToCamel converts "pet-image" to "petImage": every hyphen is dropped
// and the letter following it is upper-cased.
func KebabToCamel(s string) string {
	var b strings.Builder
	upper := false
	for _, r := range s {
		if r == '-' {
			upper = b.Len() > 0
			continue
		}
		if upper {
			r = unicode.ToUpper(r)
			upper = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

// CamelToKebab converts "petImage" to "pet-image".
func CamelToKebab(s string) string {
	var b strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('-')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}

// TitleToCamel converts a legacy human label such as "Pet Age" or "pet_age"
// into the canonical camelCase key "petAge".
func TitleToCamel(title string) string {
	words := strings.FieldsFunc(title, func(r rune) bool {
		return r == ' ' || r == '_' || r == '-'
	})
	if len(words) == 0 {
		return ""
	}
	if len(words) == 1 {
		return lowerFirst(words[0])
	}
	var b strings.Builder
	for i, w := range words {
		if i == 0 {
			b.WriteString(strings.ToLower(w))
			continue
		}
		first, size := utf8.DecodeRuneInString(w)
		b.WriteRune(unicode.ToUpper(first))
		b.WriteString(strings.ToLower(w[size:]))
	}
	return b.String()
}

func lowerFirst(w string) string {
	first, size := utf8.DecodeRuneInString(w)
	return string(unicode.ToLower(first)) + w[size:]
}
