package models

import "time"

// Translation holds the four translated route fields for one language.
type Translation struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	CreatedAt time.Time `json:"created_at"`

	RouteID      uint   `gorm:"uniqueIndex:idx_translation_route_lang;not null" json:"route_id"`
	LanguageCode string `gorm:"uniqueIndex:idx_translation_route_lang;size:16;not null" json:"language_code"`

	TrainNumber  string `json:"train_number_translation"`
	TrainName    string `json:"train_name_translation"`
	StartStation string `json:"start_station_translation"`
	EndStation   string `json:"end_station_translation"`
}

func (Translation) TableName() string {
	return "train_route_translations"
}

// Value returns the translated text of a field.
func (t Translation) Value(f Field) string {
	switch f {
	case FieldTrainNumber:
		return t.TrainNumber
	case FieldTrainName:
		return t.TrainName
	case FieldStartStation:
		return t.StartStation
	case FieldEndStation:
		return t.EndStation
	}
	return ""
}
