package models

import "time"

// AudioAsset references the synthesized clips of one route in one language.
// A nil path means synthesis produced nothing for that field.
type AudioAsset struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	CreatedAt time.Time `json:"created_at"`

	RouteID      uint   `gorm:"uniqueIndex:idx_audio_route_lang;not null" json:"route_id"`
	LanguageCode string `gorm:"uniqueIndex:idx_audio_route_lang;size:16;not null" json:"language_code"`

	TrainNumberPath  *string `json:"train_number_audio_path"`
	TrainNamePath    *string `json:"train_name_audio_path"`
	StartStationPath *string `json:"start_station_audio_path"`
	EndStationPath   *string `json:"end_station_audio_path"`
}

func (AudioAsset) TableName() string {
	return "train_route_audio"
}

// Path returns the stored reference for f, or nil when absent.
func (a AudioAsset) Path(f Field) *string {
	switch f {
	case FieldTrainNumber:
		return a.TrainNumberPath
	case FieldTrainName:
		return a.TrainNamePath
	case FieldStartStation:
		return a.StartStationPath
	case FieldEndStation:
		return a.EndStationPath
	}
	return nil
}

// SetPath stores a reference for f.
func (a *AudioAsset) SetPath(f Field, p *string) {
	switch f {
	case FieldTrainNumber:
		a.TrainNumberPath = p
	case FieldTrainName:
		a.TrainNamePath = p
	case FieldStartStation:
		a.StartStationPath = p
	case FieldEndStation:
		a.EndStationPath = p
	}
}

// Empty reports whether no field has audio.
func (a AudioAsset) Empty() bool {
	for _, f := range Fields {
		if a.Path(f) != nil {
			return false
		}
	}
	return true
}
