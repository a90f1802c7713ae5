package models

import "time"

// AnnouncementTemplate is a category sentence in one language, e.g.
// "Train {train_number} is delayed." Placeholders stay verbatim in every language.
type AnnouncementTemplate struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	UpdatedAt time.Time `json:"updated_at"`

	Category     string `gorm:"uniqueIndex:idx_template_cat_lang;size:64;not null" json:"category"`
	LanguageCode string `gorm:"uniqueIndex:idx_template_cat_lang;size:16;not null" json:"language_code"`
	TemplateText string `gorm:"type:text" json:"template_text"`
}

func (AnnouncementTemplate) TableName() string {
	return "announcement_templates"
}

// TemplatePartAudio is the clip for one literal segment of a template.
// PartIndex counts literal segments of the tokenized template from zero.
type TemplatePartAudio struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	CreatedAt time.Time `json:"created_at"`

	Category     string `gorm:"uniqueIndex:idx_template_part;size:64;not null" json:"category"`
	LanguageCode string `gorm:"uniqueIndex:idx_template_part;size:16;not null" json:"language_code"`
	PartIndex    int    `gorm:"uniqueIndex:idx_template_part;not null" json:"part_index"`
	AudioPath    string `json:"audio_path"`
}

func (TemplatePartAudio) TableName() string {
	return "template_part_audio"
}
