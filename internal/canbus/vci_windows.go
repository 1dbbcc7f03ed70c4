//go:build windows

package canbus

import (
	"fmt"
	"sync"
	"syscall"
	"time"
	"unsafe"

	"go.uber.org/zap"

	"github.com/openbms/OpenBatteryCore/internal/types"
)

// vciLibrary holds the loaded vendor DLL and its resolved entry points.
// All symbols are resolved eagerly so a broken installation fails at
// connect time instead of mid-poll.
type vciLibrary struct {
	handle syscall.Handle

	openDevice    uintptr
	closeDevice   uintptr
	initCAN       uintptr
	startCAN      uintptr
	transmit      uintptr
	receive       uintptr
	getReceiveNum uintptr
	readBoardInfo uintptr
}

func loadVCILibrary(logger *zap.Logger) (*vciLibrary, error) {
	var handle syscall.Handle
	var loaded string

	for _, candidate := range vciLibraryCandidates() {
		h, err := syscall.LoadLibrary(candidate)
		if err != nil {
			logger.Debug("CAN library not loadable",
				zap.String("path", candidate), zap.Error(err))
			continue
		}
		handle = h
		loaded = candidate
		break
	}
	if handle == 0 {
		return nil, fmt.Errorf("%w: install the vendor driver and put ControlCAN.dll on the search path", ErrLibraryNotFound)
	}

	lib := &vciLibrary{handle: handle}
	symbols := []struct {
		name string
		addr *uintptr
	}{
		{"VCI_OpenDevice", &lib.openDevice},
		{"VCI_CloseDevice", &lib.closeDevice},
		{"VCI_InitCAN", &lib.initCAN},
		{"VCI_StartCAN", &lib.startCAN},
		{"VCI_Transmit", &lib.transmit},
		{"VCI_Receive", &lib.receive},
		{"VCI_GetReceiveNum", &lib.getReceiveNum},
		{"VCI_ReadBoardInfo", &lib.readBoardInfo},
	}
	for _, sym := range symbols {
		addr, err := syscall.GetProcAddress(handle, sym.name)
		if err != nil {
			syscall.FreeLibrary(handle)
			return nil, fmt.Errorf("%w: %s missing in %s", ErrLibraryNotFound, sym.name, loaded)
		}
		*sym.addr = addr
	}

	logger.Info("Loaded CAN library", zap.String("path", loaded))
	return lib, nil
}

func (l *vciLibrary) free() {
	if l.handle != 0 {
		syscall.FreeLibrary(l.handle)
		l.handle = 0
	}
}

// VCIAdapter drives USBCAN devices through the vendor VCI API.
type VCIAdapter struct {
	mu     sync.Mutex
	cfg    Config
	lib    *vciLibrary
	logger *zap.Logger
}

func newVCIAdapter(cfg Config, logger *zap.Logger) (Adapter, error) {
	if cfg.VCIDeviceType == 0 {
		cfg.VCIDeviceType = VCIDeviceUsbCan2I
	}
	return &VCIAdapter{cfg: cfg, logger: logger}, nil
}

// Connect loads the vendor DLL and walks the open/init/start sequence. On a
// partial failure the device is closed again before the library is
// released, leaving nothing half-initialized behind.
func (a *VCIAdapter) Connect() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.lib != nil {
		return nil
	}

	lib, err := loadVCILibrary(a.logger)
	if err != nil {
		return err
	}

	code, _, _ := syscall.SyscallN(lib.openDevice,
		uintptr(a.cfg.VCIDeviceType), uintptr(a.cfg.VCIDeviceIndex), 0)
	if code != vciStatusOK {
		lib.free()
		return &VCIError{Call: "VCI_OpenDevice", Code: uint32(code)}
	}

	initCfg := defaultVCIInitConfig()
	code, _, _ = syscall.SyscallN(lib.initCAN,
		uintptr(a.cfg.VCIDeviceType), uintptr(a.cfg.VCIDeviceIndex), uintptr(a.cfg.VCIChannel),
		uintptr(unsafe.Pointer(&initCfg)))
	if code != vciStatusOK {
		a.closeAndFree(lib)
		return &VCIError{Call: "VCI_InitCAN", Code: uint32(code)}
	}

	code, _, _ = syscall.SyscallN(lib.startCAN,
		uintptr(a.cfg.VCIDeviceType), uintptr(a.cfg.VCIDeviceIndex), uintptr(a.cfg.VCIChannel))
	if code != vciStatusOK {
		a.closeAndFree(lib)
		return &VCIError{Call: "VCI_StartCAN", Code: uint32(code)}
	}

	var info vciBoardInfo
	code, _, _ = syscall.SyscallN(lib.readBoardInfo,
		uintptr(a.cfg.VCIDeviceType), uintptr(a.cfg.VCIDeviceIndex),
		uintptr(unsafe.Pointer(&info)))
	if code == vciStatusOK {
		a.logger.Info("USBCAN device ready",
			zap.String("serial", cString(info.SerialNum[:])),
			zap.String("hardware", cString(info.HwType[:])),
			zap.Uint16("hw_version", info.HwVersion),
			zap.Uint16("fw_version", info.FwVersion))
	}

	a.lib = lib
	a.logger.Info("USBCAN connected",
		zap.Uint32("device_type", a.cfg.VCIDeviceType),
		zap.Uint32("channel", a.cfg.VCIChannel))
	return nil
}

// closeAndFree rolls a partially initialized device back. Close before
// free, the call still needs the library.
func (a *VCIAdapter) closeAndFree(lib *vciLibrary) {
	syscall.SyscallN(lib.closeDevice,
		uintptr(a.cfg.VCIDeviceType), uintptr(a.cfg.VCIDeviceIndex))
	lib.free()
}

func (a *VCIAdapter) Disconnect() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.lib == nil {
		return nil
	}

	a.closeAndFree(a.lib)
	a.lib = nil
	a.logger.Info("USBCAN disconnected")
	return nil
}

func (a *VCIAdapter) IsConnected() bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.lib != nil
}

func (a *VCIAdapter) Send(frame types.CanFrame) error {
	if err := frame.Validate(); err != nil {
		return fmt.Errorf("canbus: %w", err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.lib == nil {
		return ErrNotConnected
	}

	obj := vciObjFromFrame(frame)
	code, _, _ := syscall.SyscallN(a.lib.transmit,
		uintptr(a.cfg.VCIDeviceType), uintptr(a.cfg.VCIDeviceIndex), uintptr(a.cfg.VCIChannel),
		uintptr(unsafe.Pointer(&obj)), 1)
	if code != vciStatusOK {
		return &VCIError{Call: "VCI_Transmit", Code: uint32(code)}
	}
	return nil
}

// Receive polls the device buffer, waits once for the timeout when it is
// empty, and polls again before giving up.
func (a *VCIAdapter) Receive(timeout time.Duration) (*types.CanFrame, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.lib == nil {
		return nil, ErrNotConnected
	}

	if a.receiveCount() == 0 {
		time.Sleep(timeout)
		if a.receiveCount() == 0 {
			return nil, nil
		}
	}

	var obj vciCanObj
	code, _, _ := syscall.SyscallN(a.lib.receive,
		uintptr(a.cfg.VCIDeviceType), uintptr(a.cfg.VCIDeviceIndex), uintptr(a.cfg.VCIChannel),
		uintptr(unsafe.Pointer(&obj)), 1, uintptr(timeout.Milliseconds()))
	// 0 = leer, 0xFFFFFFFF = Gerätefehler
	if uint32(code) == 0 || uint32(code) == 0xFFFFFFFF {
		return nil, nil
	}

	return frameFromVCIObj(obj), nil
}

func (a *VCIAdapter) receiveCount() uint32 {
	count, _, _ := syscall.SyscallN(a.lib.getReceiveNum,
		uintptr(a.cfg.VCIDeviceType), uintptr(a.cfg.VCIDeviceIndex), uintptr(a.cfg.VCIChannel))
	return uint32(count)
}
