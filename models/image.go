package models

// Image verweist auf ein Mikroskopie-Bild im Blob-Store.
type Image struct {
	Base
	WellID           string   `json:"well_id" gorm:"type:varchar(36);index;not null"`
	StorageKey       string   `json:"storage_key" gorm:"size:500;not null"`
	ThumbnailKey     *string  `json:"thumbnail_key" gorm:"size:500"`
	FieldIndex       int      `json:"field_index" gorm:"not null"`
	Channel          string   `json:"channel" gorm:"size:50;not null"`
	ChannelIndex     int      `json:"channel_index" gorm:"not null"`
	Width            *int     `json:"width"`
	Height           *int     `json:"height"`
	PixelSizeUM      *float64 `json:"pixel_size_um" gorm:"column:pixel_size_um"`
	OriginalFilename *string  `json:"original_filename" gorm:"size:500"`
}

func (Image) TableName() string { return "images" }

// Keys liefert alle Blob-Keys, die zu diesem Bild gehören.
func (i *Image) Keys() []string {
	keys := []string{i.StorageKey}
	if i.ThumbnailKey != nil && *i.ThumbnailKey != "" {
		keys = append(keys, *i.ThumbnailKey)
	}
	return keys
}
