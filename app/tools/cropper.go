package tools

import (
	"image"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

// CropperWidget displays a captured frame and lets the user drag out a
// rectangular selection. OnSelected receives the selection mapped to
// source image pixels.
type CropperWidget struct {
	widget.BaseWidget

	src image.Image

	startPos   fyne.Position
	currentPos fyne.Position
	dragging   bool

	frame     *canvas.Image
	selection *canvas.Rectangle

	OnSelected func(rect image.Rectangle)
}

func NewCropperWidget(img image.Image, onSelected func(image.Rectangle)) *CropperWidget {
	c := &CropperWidget{
		src:        img,
		OnSelected: onSelected,
	}
	c.ExtendBaseWidget(c)

	c.frame = canvas.NewImageFromImage(img)
	c.frame.ScaleMode = canvas.ImageScalePixels // no smoothing, templates must stay exact
	c.frame.FillMode = canvas.ImageFillContain

	c.selection = canvas.NewRectangle(color.RGBA{R: 255, G: 0, B: 0, A: 60})
	c.selection.StrokeColor = color.RGBA{R: 255, G: 0, B: 0, A: 255}
	c.selection.StrokeWidth = 2
	c.selection.Hide()

	return c
}

func (c *CropperWidget) CreateRenderer() fyne.WidgetRenderer {
	return &cropperRenderer{
		cropper: c,
		objects: []fyne.CanvasObject{c.frame, c.selection},
	}
}

func (c *CropperWidget) Dragged(e *fyne.DragEvent) {
	if !c.dragging {
		c.dragging = true
		c.startPos = e.Position.Subtract(e.Dragged)
		c.selection.Show()
	}
	c.currentPos = e.Position
	c.Refresh()
}

func (c *CropperWidget) DragEnd() {
	c.dragging = false
	c.Refresh()
	c.finishSelection()
	// Keep the selection visible until the next tap resets it.
}

func (c *CropperWidget) Tapped(e *fyne.PointEvent) {
	c.startPos = e.Position
	c.currentPos = e.Position
	c.selection.Hide()
	c.Refresh()
}

func (c *CropperWidget) Cursor() desktop.Cursor {
	return desktop.CrosshairCursor
}

// selectionBounds normalizes the drag corners.
func (c *CropperWidget) selectionBounds() (fyne.Position, fyne.Position) {
	lo := fyne.NewPos(min(c.startPos.X, c.currentPos.X), min(c.startPos.Y, c.currentPos.Y))
	hi := fyne.NewPos(max(c.startPos.X, c.currentPos.X), max(c.startPos.Y, c.currentPos.Y))
	return lo, hi
}

// imageFrame returns where inside the widget the contained image is
// actually drawn, honoring the fill-contain letterboxing.
func (c *CropperWidget) imageFrame() (pos fyne.Position, size fyne.Size) {
	wBound := c.Size().Width
	hBound := c.Size().Height
	if wBound == 0 || hBound == 0 {
		return fyne.NewPos(0, 0), fyne.NewSize(0, 0)
	}

	imgW := float32(c.src.Bounds().Dx())
	imgH := float32(c.src.Bounds().Dy())
	aspect := imgW / imgH

	if wBound/hBound > aspect {
		// View is wider than the image: fit height.
		h := hBound
		w := h * aspect
		return fyne.NewPos((wBound-w)/2, 0), fyne.NewSize(w, h)
	}
	w := wBound
	h := w / aspect
	return fyne.NewPos(0, (hBound-h)/2), fyne.NewSize(w, h)
}

// finishSelection clips the drag rectangle to the drawn image and maps
// it to source pixels.
func (c *CropperWidget) finishSelection() {
	if c.OnSelected == nil {
		return
	}
	framePos, frameSize := c.imageFrame()
	if frameSize.Width == 0 || frameSize.Height == 0 {
		return
	}

	lo, hi := c.selectionBounds()
	interX := max(framePos.X, lo.X)
	interY := max(framePos.Y, lo.Y)
	interRight := min(framePos.X+frameSize.Width, hi.X)
	interBottom := min(framePos.Y+frameSize.Height, hi.Y)
	if interRight-interX <= 0 || interBottom-interY <= 0 {
		return
	}

	scaleX := float32(c.src.Bounds().Dx()) / frameSize.Width
	scaleY := float32(c.src.Bounds().Dy()) / frameSize.Height
	relX := interX - framePos.X
	relY := interY - framePos.Y

	sel := image.Rect(
		int(relX*scaleX),
		int(relY*scaleY),
		int((interRight-framePos.X)*scaleX),
		int((interBottom-framePos.Y)*scaleY),
	)
	// Float math can overshoot by a pixel.
	sel = sel.Intersect(c.src.Bounds())
	if !sel.Empty() {
		c.OnSelected(sel)
	}
}

// --- Renderer ---

type cropperRenderer struct {
	cropper *CropperWidget
	objects []fyne.CanvasObject
}

func (r *cropperRenderer) Layout(s fyne.Size) {
	r.objects[0].Resize(s)
	r.objects[0].Move(fyne.NewPos(0, 0))
	r.layoutSelection()
}

func (r *cropperRenderer) layoutSelection() {
	lo, hi := r.cropper.selectionBounds()
	r.objects[1].Move(lo)
	r.objects[1].Resize(fyne.NewSize(hi.X-lo.X, hi.Y-lo.Y))
}

func (r *cropperRenderer) MinSize() fyne.Size {
	return fyne.NewSize(100, 100)
}

func (r *cropperRenderer) Refresh() {
	r.layoutSelection()
	canvas.Refresh(r.cropper)
}

func (r *cropperRenderer) Objects() []fyne.CanvasObject {
	return r.objects
}

func (r *cropperRenderer) Destroy() {}
