package models

import (
	"time"
)

// Statistic представляет показатель для главной страницы
type Statistic struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Name         string    `json:"name" gorm:"size:100;not null"`
	Value        string    `json:"value" gorm:"size:50;not null"`
	Icon         string    `json:"icon" gorm:"size:50"`
	Color        string    `json:"color" gorm:"size:20"`
	DisplayOrder int       `json:"display_order" gorm:"default:0;index"`
	CreatedAt    time.Time `json:"created_at"`
}

// DefaultStatistics возвращает показатели, которыми заполняется пустая таблица
func DefaultStatistics() []Statistic {
	return []Statistic{
		{Name: "Students Trained", Value: "5000+", Icon: "fa-user-graduate", Color: "#FF6B6B", DisplayOrder: 1},
		{Name: "College Partners", Value: "50+", Icon: "fa-university", Color: "#4ECDC4", DisplayOrder: 2},
		{Name: "Success Rate", Value: "95%", Icon: "fa-chart-line", Color: "#FFD166", DisplayOrder: 3},
		{Name: "Program Modules", Value: "25+", Icon: "fa-layer-group", Color: "#06D6A0", DisplayOrder: 4},
		{Name: "Workshop Hours", Value: "1000+", Icon: "fa-clock", Color: "#118AB2", DisplayOrder: 5},
		{Name: "Cities Covered", Value: "15+", Icon: "fa-map-marker-alt", Color: "#EF476F", DisplayOrder: 6},
	}
}
