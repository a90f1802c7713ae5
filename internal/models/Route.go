package models

import "time"

// Route is a train service between two stations.
// Rows are hard deleted; translations and audio assets cascade with the route.
type Route struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	TrainNumber  string `json:"train_number" binding:"required"` // digits in practice, stored as text
	TrainName    string `json:"train_name" binding:"required"`
	StartStation string `json:"start_station" binding:"required"`
	StartCode    string `json:"start_code"`
	EndStation   string `json:"end_station" binding:"required"`
	EndCode      string `json:"end_code"`

	// Associations
	Translations []Translation `gorm:"foreignKey:RouteID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"translations,omitempty"`
	AudioAssets  []AudioAsset  `gorm:"foreignKey:RouteID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"audio,omitempty"`
}

func (Route) TableName() string {
	return "train_routes"
}
