package platform

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRegisters emulates the register file of the accelerometer.
type fakeRegisters struct {
	regs    map[byte]byte
	written []byte
	fail    bool
}

func newFakeRegisters() *fakeRegisters {
	return &fakeRegisters{regs: map[byte]byte{regWhoAmI: lis3dhDeviceID, regCtrl3: 0x01}}
}

func (f *fakeRegisters) Tx(w, r []byte) error {
	if f.fail {
		return errors.New("bus error")
	}
	if len(w) == 2 {
		f.regs[w[0]] = w[1]
		f.written = append(f.written, w[0])
		return nil
	}
	reg := w[0] &^ autoIncrement
	for i := range r {
		if w[0]&autoIncrement != 0 {
			r[i] = f.regs[reg+byte(i)]
		} else {
			r[i] = f.regs[reg]
		}
	}
	return nil
}

func TestLis3dhInit(t *testing.T) {
	regs := newFakeRegisters()

	_, err := newLis3dh(regs, 2, 120)
	require.NoError(t, err)

	assert.Equal(t, byte(0x77), regs.regs[regCtrl1])
	assert.Equal(t, byte(0x88), regs.regs[regCtrl4])
	assert.Equal(t, byte(0x81), regs.regs[regCtrl3])
	assert.Equal(t, byte(0x08), regs.regs[regCtrl5])
	assert.Equal(t, byte(0x15), regs.regs[regClickCfg])
	assert.Equal(t, byte(120|0x80), regs.regs[regClickThs])
	assert.Equal(t, byte(255), regs.regs[regTimeWindow])
	assert.Equal(t, byte(regCtrl1), regs.written[0], "data rate is configured first")
}

func TestLis3dhRangeBits(t *testing.T) {
	regs := newFakeRegisters()
	_, err := newLis3dh(regs, 16, 0)
	require.NoError(t, err)
	assert.Equal(t, byte(0xB8), regs.regs[regCtrl4])

	_, err = newLis3dh(newFakeRegisters(), 3, 0)
	assert.ErrorContains(t, err, "unsupported accelerometer range 3G")
}

func TestLis3dhWrongDevice(t *testing.T) {
	regs := newFakeRegisters()
	regs.regs[regWhoAmI] = 0x44

	_, err := newLis3dh(regs, 2, 120)
	assert.ErrorContains(t, err, "unexpected accelerometer id 0x44")
}

func TestLis3dhSample(t *testing.T) {
	regs := newFakeRegisters()
	sensor, err := newLis3dh(regs, 2, 120)
	require.NoError(t, err)

	// x = 16380, y = -8190, z = 0
	regs.regs[regOutXL] = 0xFC
	regs.regs[regOutXL+1] = 0x3F
	regs.regs[regOutXL+2] = 0x02
	regs.regs[regOutXL+3] = 0xE0
	regs.regs[regClickSrc] = 0x44

	sample, err := sensor.sample()
	require.NoError(t, err)
	assert.True(t, sample.Tapped)
	assert.InDelta(t, 9.80665, sample.X, 1e-9)
	assert.InDelta(t, -4.903325, sample.Y, 1e-9)
	assert.Zero(t, sample.Z)

	regs.regs[regClickSrc] = 0x04
	sample, err = sensor.sample()
	require.NoError(t, err)
	assert.False(t, sample.Tapped)
}

func TestLis3dhSampleError(t *testing.T) {
	regs := newFakeRegisters()
	sensor, err := newLis3dh(regs, 2, 120)
	require.NoError(t, err)

	regs.fail = true
	_, err = sensor.sample()
	assert.ErrorContains(t, err, "bus error")
	assert.NoError(t, sensor.close())
}
