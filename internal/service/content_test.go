package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/autosell-mx/reposting-api/internal/models"
)

func sampleVehicle() *models.Vehicle {
	return &models.Vehicle{
		ID:       1,
		Brand:    "Toyota",
		Model:    "Corolla",
		Year:     2020,
		Color:    "Rojo",
		Price:    250000,
		Mileage:  "45,000 km",
		Location: "Guadalajara",
		Status:   models.VehicleStatusAvailable,
	}
}

func TestGeneratePostContentDefaultTemplate(t *testing.T) {
	v := sampleVehicle()

	content := GeneratePostContent(v, "")

	assert.Contains(t, content, "🚗 ¡Excelente oportunidad! 2020 Toyota Corolla")
	assert.Contains(t, content, "en color Rojo")
	assert.Contains(t, content, "solo 45,000 km")
	assert.Contains(t, content, "Precio especial: $250,000")
	assert.Contains(t, content, "Ubicado en Guadalajara")
	assert.Contains(t, content, "Garantía incluida")
}

func TestGeneratePostContentDeterministic(t *testing.T) {
	v := sampleVehicle()

	first := GeneratePostContent(v, "")
	second := GeneratePostContent(v, "")

	assert.Equal(t, first, second)
}

func TestGeneratePostContentSkipsEmptyFields(t *testing.T) {
	v := sampleVehicle()
	v.Color = ""
	v.Mileage = ""
	v.Price = 0
	v.Location = ""

	content := GeneratePostContent(v, "")

	assert.Contains(t, content, "🚗 ¡Excelente oportunidad! 2020 Toyota Corolla")
	assert.NotContains(t, content, "en color")
	assert.NotContains(t, content, "solo")
	assert.NotContains(t, content, "Precio especial")
	assert.NotContains(t, content, "Ubicado en")
}

func TestGeneratePostContentCustomTemplate(t *testing.T) {
	v := sampleVehicle()

	content := GeneratePostContent(v, "Vendo {brand} {model} {year} en {location} por {price}")

	assert.Equal(t, "Vendo Toyota Corolla 2020 en Guadalajara por $250,000", content)
}

func TestGeneratePostContentTemplateDefaults(t *testing.T) {
	v := sampleVehicle()
	v.Color = ""
	v.Price = 0

	content := GeneratePostContent(v, "{brand} color {color} precio {price}")

	assert.Equal(t, "Toyota color N/A precio Consultar", content)
}

func TestGeneratePostContentUnknownPlaceholderFallsBack(t *testing.T) {
	v := sampleVehicle()

	content := GeneratePostContent(v, "Vendo {engine_size} litros")

	assert.Contains(t, content, "🚗 ¡Excelente oportunidad! 2020 Toyota Corolla")
	assert.NotContains(t, content, "engine_size")
}

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		name     string
		price    float64
		expected string
	}{
		{"whole thousands", 250000, "$250,000"},
		{"hundreds only", 999, "$999"},
		{"exactly one thousand", 1000, "$1,000"},
		{"millions", 1250000, "$1,250,000"},
		{"rounds cents", 199999.99, "$200,000"},
		{"zero", 0, "$0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatPrice(tt.price))
		})
	}
}
