//go:build !cgo

package platform

import (
	"errors"

	"lautenbacher.net/gosaber/config"
)

func newWs2812Driver(_ config.DisplayConfig) (ledDriver, error) {
	return nil, errors.New("WS2812 support needs a cgo build")
}
