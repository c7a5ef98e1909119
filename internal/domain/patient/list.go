package patient

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/vetfhir/vetfhir/internal/platform/fhir"
)

// PetListItem is a flat pet row. Besides the fixed columns it carries one
// field per extension, so its key set is open.
type PetListItem map[string]interface{}

const petImageKey = "petImage"

// ExtractPetData flattens a Patient into a list row. An object-valued
// petImage is exploded into petImageUrl, petImageOriginalName,
// petImageMimeType and petImageId.
func ExtractPetData(r *Resource) PetListItem {
	item := PetListItem{
		"id":            r.ID,
		"name":          "",
		"petParentName": "",
		"gender":        r.Gender,
		"birthDate":     r.BirthDate,
		"species":       "",
		"breed":         "",
		"genderStatus":  "",
	}
	if len(r.Name) > 0 {
		item["name"] = r.Name[0].Text
	}
	if len(r.Name) > 1 {
		item["petParentName"] = r.Name[1].Text
	}
	if r.Animal != nil {
		item["species"] = conceptDisplay(r.Animal.Species)
		item["breed"] = conceptDisplay(r.Animal.Breed)
		item["genderStatus"] = conceptDisplay(r.Animal.GenderStatus)
	}

	for _, ext := range r.Extension {
		key := AttributeKey(ext)
		if key == "" {
			continue
		}
		if key == petImageKey && ext.ValueAttachment != nil {
			explodeImage(item, imageFromAttachment(ext.ValueAttachment))
			continue
		}
		if a := ext.ValueAttachment; a != nil && a.ContentType == jsonContentType {
			item[key] = attributeValue(ext)
			continue
		}
		item[key] = ext.Value()
	}
	return item
}

func explodeImage(item PetListItem, img PetImage) {
	item["petImageUrl"] = img.URL
	item["petImageOriginalName"] = img.OriginalName
	item["petImageMimeType"] = img.MimeType
	item["petImageId"] = img.ID
}

// TransformPets converts a JSON array of Patient bundle entries into list
// rows. Non-array input is logged and yields an empty list.
func TransformPets(ctx context.Context, raw json.RawMessage) []PetListItem {
	logger := zerolog.Ctx(ctx)
	items := []PetListItem{}

	resources, err := fhir.DecodeEntries(raw)
	if err != nil {
		logger.Warn().Err(err).Str("resource", "Patient").Msg("pet list conversion skipped")
		return items
	}
	for i, res := range resources {
		var r Resource
		if err := json.Unmarshal(res, &r); err != nil {
			logger.Warn().Err(err).Int("index", i).Msg("skipping undecodable patient entry")
			continue
		}
		items = append(items, ExtractPetData(&r))
	}
	return items
}
