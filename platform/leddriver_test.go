package platform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"lautenbacher.net/gosaber/config"
	"lautenbacher.net/gosaber/led"
)

func captureExchange(sent *[]byte) exchangeFunc {
	return func(data []byte) {
		*sent = append([]byte(nil), data...)
	}
}

func TestWS2801Driver_Write(t *testing.T) {
	displayConfig := config.DisplayConfig{
		LedsTotal:       3,
		Brightness:      1,
		ColorCorrection: []float64{1.0, 1.0, 1.0},
	}
	var sentData []byte
	driver := newWs2801Driver(displayConfig, captureExchange(&sentData))

	err := driver.write([]led.Led{
		{Red: 255, Green: 0, Blue: 0},
		{Red: 0, Green: 255, Blue: 0},
		{Red: 0, Green: 0, Blue: 255},
	})
	require.NoError(t, err)

	assert.Equal(t, []byte{255, 0, 0, 0, 255, 0, 0, 0, 255}, sentData)
}

func TestWS2801Driver_BrightnessAndCorrection(t *testing.T) {
	displayConfig := config.DisplayConfig{
		LedsTotal:       1,
		Brightness:      0.8,
		ColorCorrection: []float64{1.0, 0.5, 2.0},
	}
	var sentData []byte
	driver := newWs2801Driver(displayConfig, captureExchange(&sentData))

	require.NoError(t, driver.write([]led.Led{{Red: 100, Green: 100, Blue: 200}}))

	// 200 * 2.0 * 0.8 = 320 is clipped
	assert.Equal(t, []byte{80, 40, 255}, sentData)
}

func TestAPA102Driver_Write(t *testing.T) {
	displayConfig := config.DisplayConfig{
		LedsTotal:         2,
		Brightness:        1,
		ColorCorrection:   []float64{1.0, 1.0, 1.0},
		APA102_Brightness: 31,
	}
	var sentData []byte
	driver := newApa102Driver(displayConfig, captureExchange(&sentData))

	err := driver.write([]led.Led{
		{Red: 255, Green: 0, Blue: 0},
		{Red: 0, Green: 255, Blue: 0},
	})
	require.NoError(t, err)

	expected := []byte{
		0x00, 0x00, 0x00, 0x00, // Start frame
		0xFF, 0, 0, 255, // LED 1
		0xFF, 0, 255, 0, // LED 2
		0xFF, // End frame
	}
	assert.Equal(t, expected, sentData)
}

func TestAPA102Driver_EndFrameLength(t *testing.T) {
	displayConfig := config.DisplayConfig{
		LedsTotal:         40,
		Brightness:        1,
		ColorCorrection:   []float64{1.0, 1.0, 1.0},
		APA102_Brightness: 7,
	}
	var sentData []byte
	driver := newApa102Driver(displayConfig, captureExchange(&sentData))

	require.NoError(t, driver.write(make([]led.Led, 40)))

	require.Len(t, sentData, 4+4*40+3)
	assert.Equal(t, byte(0xE7), sentData[4])
	assert.Equal(t, []byte{0xFF, 0xFF, 0xFF}, sentData[len(sentData)-3:])
}

func TestPackRGB(t *testing.T) {
	assert.Equal(t, uint32(0x00FF7F01), packRGB(led.Led{Red: 255, Green: 127, Blue: 1}, [3]float64{1, 1, 1}))
	assert.Equal(t, uint32(0x00800000), packRGB(led.Led{Red: 255}, [3]float64{0.5, 1, 1}))
}
