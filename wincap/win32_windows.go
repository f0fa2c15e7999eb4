//go:build windows
// +build windows

package wincap

import (
	"fmt"
	"image"
	"sync"
	"syscall"
	"unsafe"
)

var (
	user32 = syscall.NewLazyDLL("user32.dll")
	gdi32  = syscall.NewLazyDLL("gdi32.dll")

	procFindWindowW          = user32.NewProc("FindWindowW")
	procGetDesktopWindow     = user32.NewProc("GetDesktopWindow")
	procGetWindowRect        = user32.NewProc("GetWindowRect")
	procGetWindowDC          = user32.NewProc("GetWindowDC")
	procReleaseDC            = user32.NewProc("ReleaseDC")
	procEnumWindows          = user32.NewProc("EnumWindows")
	procIsWindowVisible      = user32.NewProc("IsWindowVisible")
	procGetWindowTextW       = user32.NewProc("GetWindowTextW")
	procGetWindowTextLengthW = user32.NewProc("GetWindowTextLengthW")

	procCreateCompatibleDC     = gdi32.NewProc("CreateCompatibleDC")
	procCreateCompatibleBitmap = gdi32.NewProc("CreateCompatibleBitmap")
	procSelectObject           = gdi32.NewProc("SelectObject")
	procBitBlt                 = gdi32.NewProc("BitBlt")
	procDeleteDC               = gdi32.NewProc("DeleteDC")
	procDeleteObject           = gdi32.NewProc("DeleteObject")
	procGetDIBits              = gdi32.NewProc("GetDIBits")
)

const (
	srcCopy      = 0x00CC0020
	biRGB        = 0
	dibRGBColors = 0
)

type winRect struct {
	Left   int32
	Top    int32
	Right  int32
	Bottom int32
}

type bitmapInfoHeader struct {
	Size          uint32
	Width         int32
	Height        int32
	Planes        uint16
	BitCount      uint16
	Compression   uint32
	SizeImage     uint32
	XPelsPerMeter int32
	YPelsPerMeter int32
	ClrUsed       uint32
	ClrImportant  uint32
}

type bitmapInfo struct {
	Header bitmapInfoHeader
	Colors [1]uint32
}

// Win32Backend captures through GDI. Each Grab acquires the window DC, a
// memory DC and a bitmap, and releases all three before returning.
type Win32Backend struct{}

func NewWin32Backend() *Win32Backend {
	return &Win32Backend{}
}

func (b *Win32Backend) Desktop() (Target, error) {
	hwnd, _, _ := procGetDesktopWindow.Call()
	if hwnd == 0 {
		return Target{}, fmt.Errorf("%w: no desktop window", ErrTargetNotFound)
	}
	return Target{ID: hwnd, Desktop: true}, nil
}

func (b *Win32Backend) FindWindow(title string) (Target, error) {
	titlePtr, err := syscall.UTF16PtrFromString(title)
	if err != nil {
		return Target{}, fmt.Errorf("%w: %q: %v", ErrTargetNotFound, title, err)
	}

	hwnd, _, _ := procFindWindowW.Call(0, uintptr(unsafe.Pointer(titlePtr)))
	if hwnd == 0 {
		return Target{}, fmt.Errorf("%w: %q", ErrTargetNotFound, title)
	}
	return Target{ID: hwnd, Title: title}, nil
}

func (b *Win32Backend) WindowRect(t Target) (image.Rectangle, error) {
	var r winRect
	ret, _, err := procGetWindowRect.Call(t.ID, uintptr(unsafe.Pointer(&r)))
	if ret == 0 {
		return image.Rectangle{}, fmt.Errorf("GetWindowRect: %v", err)
	}
	return image.Rect(int(r.Left), int(r.Top), int(r.Right), int(r.Bottom)), nil
}

func (b *Win32Backend) Grab(t Target, r image.Rectangle) ([]byte, error) {
	w, h := r.Dx(), r.Dy()

	hdcWindow, _, err := procGetWindowDC.Call(t.ID)
	if hdcWindow == 0 {
		return nil, fmt.Errorf("GetWindowDC: %v", err)
	}
	defer procReleaseDC.Call(t.ID, hdcWindow)

	hdcMem, _, err := procCreateCompatibleDC.Call(hdcWindow)
	if hdcMem == 0 {
		return nil, fmt.Errorf("CreateCompatibleDC: %v", err)
	}
	defer procDeleteDC.Call(hdcMem)

	hBitmap, _, err := procCreateCompatibleBitmap.Call(hdcWindow, uintptr(w), uintptr(h))
	if hBitmap == 0 {
		return nil, fmt.Errorf("CreateCompatibleBitmap: %v", err)
	}
	defer procDeleteObject.Call(hBitmap)

	old, _, _ := procSelectObject.Call(hdcMem, hBitmap)
	ret, _, err := procBitBlt.Call(
		hdcMem,
		0, 0,
		uintptr(w), uintptr(h),
		hdcWindow,
		uintptr(r.Min.X), uintptr(r.Min.Y),
		srcCopy,
	)
	// GetDIBits needs the bitmap deselected
	procSelectObject.Call(hdcMem, old)
	if ret == 0 {
		return nil, fmt.Errorf("BitBlt: %v", err)
	}

	var bi bitmapInfo
	bi.Header.Size = uint32(unsafe.Sizeof(bi.Header))
	bi.Header.Width = int32(w)
	bi.Header.Height = -int32(h) // top-down rows
	bi.Header.Planes = 1
	bi.Header.BitCount = 32
	bi.Header.Compression = biRGB

	buf := make([]byte, w*h*4)
	ret, _, err = procGetDIBits.Call(
		hdcMem,
		hBitmap,
		0,
		uintptr(h),
		uintptr(unsafe.Pointer(&buf[0])),
		uintptr(unsafe.Pointer(&bi)),
		dibRGBColors,
	)
	if ret == 0 {
		return nil, fmt.Errorf("GetDIBits: %v", err)
	}
	return buf, nil
}

var (
	enumMu     sync.Mutex
	enumResult []Window
	enumProc   = syscall.NewCallback(func(hwnd, _ uintptr) uintptr {
		if visible, _, _ := procIsWindowVisible.Call(hwnd); visible != 0 {
			enumResult = append(enumResult, Window{ID: hwnd, Title: windowText(hwnd)})
		}
		return 1
	})
)

func (b *Win32Backend) Windows() ([]Window, error) {
	enumMu.Lock()
	defer enumMu.Unlock()

	enumResult = nil
	ret, _, err := procEnumWindows.Call(enumProc, 0)
	if ret == 0 {
		return nil, fmt.Errorf("EnumWindows: %v", err)
	}
	out := enumResult
	enumResult = nil
	return out, nil
}

func windowText(hwnd uintptr) string {
	n, _, _ := procGetWindowTextLengthW.Call(hwnd)
	if n == 0 {
		return ""
	}
	buf := make([]uint16, n+1)
	procGetWindowTextW.Call(hwnd, uintptr(unsafe.Pointer(&buf[0])), n+1)
	return syscall.UTF16ToString(buf)
}
