package models

import "time"

// Conditions описывает текущие условия на пляже, полученные
// от внешнего поставщика морских данных.
type Conditions struct {
	SpotID        string    `json:"spot_id"`        // Идентификатор пляжа
	WaveHeight    float64   `json:"wave_height"`    // Высота волны, м
	WaterTemp     float64   `json:"water_temp"`     // Температура воды, °C
	WindSpeed     float64   `json:"wind_speed"`     // Скорость ветра, м/с
	WindDirection string    `json:"wind_direction"` // Направление ветра
	FetchedAt     time.Time `json:"fetched_at"`     // Время получения данных
}
