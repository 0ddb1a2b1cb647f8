package layout

// Block represents a single rectangular event placement in the day grid.
// All coordinates are in user units (typically pixels in SVG), with the
// origin at the top-left of the grid and Y growing downward.
type Block struct {
	EventID      string  `json:"event_id"`
	Left         float64 `json:"left"`
	Right        float64 `json:"right"`
	Top          float64 `json:"top"`
	Bottom       float64 `json:"bottom"`
	ColumnIndex  int     `json:"column_index"`
	TotalColumns int     `json:"total_columns"`
}

// Width returns the horizontal span of the block.
func (b Block) Width() float64 { return b.Right - b.Left }

// Height returns the vertical span of the block.
func (b Block) Height() float64 { return b.Bottom - b.Top }

// CenterX returns the horizontal center point of the block.
func (b Block) CenterX() float64 { return (b.Left + b.Right) / 2 }

// CenterY returns the vertical center point of the block.
func (b Block) CenterY() float64 { return (b.Top + b.Bottom) / 2 }
