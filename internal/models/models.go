// Package models holds the gorm entities of the announcement service.
package models

// All lists every entity for migration, parents first.
func All() []any {
	return []any{
		&Route{},
		&Translation{},
		&AudioAsset{},
		&AnnouncementTemplate{},
		&TemplatePartAudio{},
	}
}
