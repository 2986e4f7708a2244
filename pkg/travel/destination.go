package travel

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/jelajahid/jelajah/pkg/docstore"
)

// Destination is a travel destination record. The JSON keys are the wire
// contract; the store holds the same shape plus a createdAt stamp.
type Destination struct {
	Description string  `json:"Description"`
	Category    string  `json:"Category"`
	PlaceID     string  `json:"Place_Id"`
	PlaceName   string  `json:"Place_Name"`
	Coordinate  string  `json:"Coordinate"`
	Rating      float64 `json:"Rating"`
	Long        float64 `json:"Long"`
	City        string  `json:"City"`
	Lat         float64 `json:"Lat"`
}

// Validate requires all nine fields. A zero value counts as missing, so a
// rating of 0 fails validation the same way an empty string does.
func (d Destination) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.Description, validation.Required.Error("Description is required")),
		validation.Field(&d.Category, validation.Required.Error("Category is required")),
		validation.Field(&d.PlaceID, validation.Required.Error("Place_Id is required")),
		validation.Field(&d.PlaceName, validation.Required.Error("Place_Name is required")),
		validation.Field(&d.Coordinate, validation.Required.Error("Coordinate is required")),
		validation.Field(&d.Rating, validation.Required.Error("Rating is required")),
		validation.Field(&d.Long, validation.Required.Error("Long is required")),
		validation.Field(&d.City, validation.Required.Error("City is required")),
		validation.Field(&d.Lat, validation.Required.Error("Lat is required")),
	)
}

// Document returns the full record body for storage.
func (d Destination) Document() docstore.Document {
	return docstore.Document{
		"Description": d.Description,
		"Category":    d.Category,
		"Place_Id":    d.PlaceID,
		"Place_Name":  d.PlaceName,
		"Coordinate":  d.Coordinate,
		"Rating":      d.Rating,
		"Long":        d.Long,
		"City":        d.City,
		"Lat":         d.Lat,
	}
}

// Patch returns only the fields carrying non-zero values, for partial
// updates. A field set to its zero value is treated as absent, which means a
// rating cannot be cleared to 0 through an update.
func (d Destination) Patch() docstore.Document {
	patch := docstore.Document{}
	if d.Description != "" {
		patch["Description"] = d.Description
	}
	if d.Category != "" {
		patch["Category"] = d.Category
	}
	if d.PlaceID != "" {
		patch["Place_Id"] = d.PlaceID
	}
	if d.PlaceName != "" {
		patch["Place_Name"] = d.PlaceName
	}
	if d.Coordinate != "" {
		patch["Coordinate"] = d.Coordinate
	}
	if d.Rating != 0 {
		patch["Rating"] = d.Rating
	}
	if d.Long != 0 {
		patch["Long"] = d.Long
	}
	if d.City != "" {
		patch["City"] = d.City
	}
	if d.Lat != 0 {
		patch["Lat"] = d.Lat
	}
	return patch
}
