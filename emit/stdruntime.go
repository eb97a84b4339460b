package emit

import (
	"fmt"
	"math"
)

func (Std) Sin(x float64) float64 { return math.Sin(x) }
func (Std) Cos(x float64) float64 { return math.Cos(x) }

func (Std) IntOfFloat(x float64) int64 { return int64(x) }
func (Std) FloatOfInt(x int64) float64 { return float64(x) }

func (Std) Print(s string) { fmt.Println(s) }

// DrawPoint, DrawLine, and the cursor/mouse polls have no meaning without a
// real display; Std no-ops the drawing calls and reports a parked cursor,
// so a program built against Std still runs deterministically under test.
func (Std) DrawPoint(x, y int64)          {}
func (Std) DrawLine(x1, y1, x2, y2 int64) {}
func (Std) PollCursorX() int64            { return 0 }
func (Std) PollCursorY() int64            { return 0 }
func (Std) PollMouseButton() bool         { return false }
