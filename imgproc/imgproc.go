// Package imgproc runs the OpenCV side of the pipeline: object detection,
// drawing detections and reading/writing frames as image files.
package imgproc

import (
	"fmt"

	"github.com/DaniruKun/cascadecam/frame"
	"gocv.io/x/gocv"
)

// FrameToMat copies f into a new 8-bit 3-channel Mat. The caller owns the
// Mat and must Close it.
func FrameToMat(f frame.Frame) (gocv.Mat, error) {
	if err := f.Validate(); err != nil {
		return gocv.Mat{}, err
	}
	return gocv.NewMatFromBytes(f.Height, f.Width, gocv.MatTypeCV8UC3, f.Clone().Pix)
}

// MatToFrame copies an 8-bit BGR Mat into a frame.
func MatToFrame(mat gocv.Mat) (frame.Frame, error) {
	if mat.Empty() {
		return frame.Frame{}, fmt.Errorf("%w: empty mat", frame.ErrMalformed)
	}
	if mat.Type() != gocv.MatTypeCV8UC3 {
		return frame.Frame{}, fmt.Errorf("%w: mat type %v, want 8UC3", frame.ErrMalformed, mat.Type())
	}

	f := frame.Frame{Width: mat.Cols(), Height: mat.Rows(), Pix: mat.ToBytes()}
	if err := f.Validate(); err != nil {
		return frame.Frame{}, err
	}
	return f, nil
}

// ReadFrame decodes an image file into a frame.
func ReadFrame(path string) (frame.Frame, error) {
	mat := gocv.IMRead(path, gocv.IMReadColor)
	defer mat.Close()

	if mat.Empty() {
		return frame.Frame{}, fmt.Errorf("could not read image: %s", path)
	}
	return MatToFrame(mat)
}

// WriteFrame encodes f to path; the format follows the file extension.
func WriteFrame(path string, f frame.Frame) error {
	mat, err := FrameToMat(f)
	if err != nil {
		return err
	}
	defer mat.Close()

	if ok := gocv.IMWrite(path, mat); !ok {
		return fmt.Errorf("could not write image: %s", path)
	}
	return nil
}

// grey converts a BGR Mat to single channel. The caller closes the result.
func grey(src gocv.Mat) gocv.Mat {
	dst := gocv.NewMat()
	gocv.CvtColor(src, &dst, gocv.ColorBGRToGray)
	return dst
}
