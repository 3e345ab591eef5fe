package model

// OccupancyRecord is one timestamped headcount snapshot for a restaurant,
// produced by the external counting pipeline. Append-only. TimeLabel is an
// opaque string (observed format "month_day_hour_minute"); ordering and
// prefix filtering are plain string comparison, never date parsing.
type OccupancyRecord struct {
	ID           int64  `gorm:"primaryKey" json:"id"`
	RestaurantID int64  `gorm:"index;not null" json:"restaurant_id"`
	TimeLabel    string `gorm:"size:64;not null;index" json:"time"`
	Headcount    int    `gorm:"not null" json:"headcount"`
}
