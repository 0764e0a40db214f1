package utils

// ValidateCoordinates проверяет валидность координат
func ValidateCoordinates(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

// ValidateLonLat проверяет точку в формате провайдера [lon, lat]
func ValidateLonLat(point []float64) bool {
	if len(point) != 2 {
		return false
	}
	return ValidateCoordinates(point[1], point[0])
}
