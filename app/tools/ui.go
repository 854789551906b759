package tools

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/bytedance/sonic"
	"github.com/kbinani/screenshot"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/ConserveLee/uma-auto/internal/assets"
)

// NewToolsPanel creates the utility tab: template capture, region
// coordinate copying and the asset auditor.
func NewToolsPanel(win fyne.Window) fyne.CanvasObject {
	// State
	selectedDisplay := 0

	// --- UI Components ---

	// 1. Screen Selector
	numDisplays := screenshot.NumActiveDisplays()
	var displayOptions []string
	for i := 0; i < numDisplays; i++ {
		bounds := screenshot.GetDisplayBounds(i)
		displayOptions = append(displayOptions, fmt.Sprintf("Display %d (%dx%d)", i, bounds.Dx(), bounds.Dy()))
	}
	if len(displayOptions) == 0 {
		displayOptions = []string{"Display 0 (Default)"}
	}

	displaySelect := widget.NewSelect(displayOptions, func(selected string) {
		var id int
		if _, err := fmt.Sscanf(selected, "Display %d", &id); err == nil {
			selectedDisplay = id
		}
	})
	displaySelect.SetSelected(displayOptions[0])

	// 2. Info Label
	infoLabel := widget.NewLabel("1. 选择游戏所在屏幕\n2. 点击“截取并裁切”\n3. 框选按钮或图标\n4. 保存为模板，或复制区域坐标")
	infoLabel.Alignment = fyne.TextAlignCenter

	// 3. Action Buttons
	cropBtn := widget.NewButton("截取并裁切 (Capture & Crop)", func() {
		bounds := screenshot.GetDisplayBounds(selectedDisplay)
		img, err := screenshot.CaptureRect(bounds)
		if err != nil {
			dialog.ShowError(err, win)
			return
		}
		showCropperWindow(img)
	})
	cropBtn.Importance = widget.HighImportance

	auditBtn := widget.NewButton("校验素材 (Audit Assets)", func() {
		var missing []string
		ok := assets.CheckRequiredButtons(func(format string, args ...interface{}) {
			missing = append(missing, fmt.Sprintf(format, args...))
		})
		if ok {
			dialog.ShowInformation("素材完整", "All required templates are present.", win)
			return
		}
		dialog.ShowInformation("缺少素材", strings.Join(missing, "\n"), win)
	})

	openDirBtn := widget.NewButton("打开素材目录 (Open Assets)", func() {
		openDir(assets.Dir)
	})

	// Layout
	content := container.NewVBox(
		widget.NewLabel("选择屏幕:"),
		displaySelect,
		widget.NewSeparator(),
		infoLabel,
		layoutSpacer(),
		cropBtn,
		layoutSpacer(),
		widget.NewSeparator(),
		auditBtn,
		openDirBtn,
	)

	return content
}

func layoutSpacer() fyne.CanvasObject {
	return widget.NewLabel("") // rudimentary spacer
}

func openDir(path string) {
	var cmd *exec.Cmd
	absPath, _ := filepath.Abs(path)

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", absPath)
	case "windows":
		cmd = exec.Command("explorer", absPath)
	default:
		cmd = exec.Command("xdg-open", absPath)
	}
	cmd.Run()
}

func showCropperWindow(fullImg image.Image) {
	w := fyne.CurrentApp().NewWindow("裁切素材 (Crop Template)")
	w.Resize(fyne.NewSize(800, 600))

	lbl := widget.NewLabel("请在图片上拖拽鼠标框选目标...")
	lbl.Alignment = fyne.TextAlignCenter

	saveBtn := widget.NewButton("保存选区", nil)
	saveBtn.Disable()
	copyBtn := widget.NewButton("复制区域坐标", nil)
	copyBtn.Disable()

	var currentSelection image.Rectangle

	cropper := NewCropperWidget(fullImg, func(rect image.Rectangle) {
		currentSelection = rect
		lbl.SetText(fmt.Sprintf("已选区: %v", rect))
		saveBtn.Enable()
		copyBtn.Enable()
	})

	saveBtn.OnTapped = func() {
		if currentSelection.Empty() {
			return
		}
		subImg, ok := fullImg.(interface {
			SubImage(r image.Rectangle) image.Image
		})
		if !ok {
			dialog.ShowError(fmt.Errorf("image type does not support cropping"), w)
			return
		}
		showSaveForm(w, subImg.SubImage(currentSelection))
	}

	// Region coordinates in the region_settings.json shape, ready to
	// paste into the overrides file.
	copyBtn.OnTapped = func() {
		if currentSelection.Empty() {
			return
		}
		region := assets.Region{
			Left:   currentSelection.Min.X,
			Top:    currentSelection.Min.Y,
			Width:  currentSelection.Dx(),
			Height: currentSelection.Dy(),
		}
		data, err := sonic.Marshal(region)
		if err == nil {
			err = clipboard.WriteAll(string(data))
		}
		if err != nil {
			dialog.ShowError(err, w)
			return
		}
		lbl.SetText(fmt.Sprintf("已复制: %s", data))
	}

	content := container.NewBorder(
		nil,
		container.NewVBox(lbl, container.NewGridWithColumns(2, copyBtn, saveBtn)),
		nil, nil,
		cropper,
	)

	w.SetContent(content)
	w.Show()
}

func showSaveForm(win fyne.Window, img image.Image) {
	// Preview
	imageObj := canvas.NewImageFromImage(img)
	imageObj.FillMode = canvas.ImageFillContain
	imageObj.SetMinSize(fyne.NewSize(100, 100))

	// Mapping friendly names to asset directories
	dirMap := map[string]string{
		"按钮 (Buttons)":       assets.ButtonsDir,
		"图标 (Icons)":         assets.IconsDir,
		"界面标记 (UI Markers)": assets.UIDir,
	}
	dirOptions := []string{
		"按钮 (Buttons)",
		"图标 (Icons)",
		"界面标记 (UI Markers)",
	}

	dirSelect := widget.NewSelect(dirOptions, nil)
	nameEntry := widget.NewEntry()

	// Suggest the first required template still missing from the
	// chosen directory, so filling asset gaps needs no typing.
	updateName := func(friendlyName string) {
		realDir, ok := dirMap[friendlyName]
		if !ok {
			return
		}
		os.MkdirAll(realDir, 0755)
		nameEntry.SetText(suggestName(realDir))
	}

	dirSelect.OnChanged = func(s string) {
		updateName(s)
	}
	dirSelect.SetSelected(dirOptions[0])

	content := container.NewVBox(
		widget.NewLabel("确认保存此素材?"),
		container.NewCenter(imageObj),
		widget.NewLabel("保存至 (Target):"),
		dirSelect,
		widget.NewLabel("文件名 (Suggestion):"),
		nameEntry,
	)

	dialog.ShowCustomConfirm("保存素材", "保存", "取消", content, func(confirm bool) {
		if !confirm {
			return
		}

		realDir := dirMap[dirSelect.Selected]
		targetName := nameEntry.Text
		if targetName == "" {
			dialog.ShowError(fmt.Errorf("文件名不能为空"), win)
			return
		}

		targetPath := filepath.Join(realDir, targetName)
		if err := os.MkdirAll(realDir, 0755); err != nil {
			dialog.ShowError(err, win)
			return
		}

		f, err := os.Create(targetPath)
		if err != nil {
			dialog.ShowError(err, win)
			return
		}
		defer f.Close()

		if err := png.Encode(f, img); err != nil {
			dialog.ShowError(err, win)
			return
		}

		dialog.ShowInformation("成功", fmt.Sprintf("已保存: %s", targetPath), win)
		win.Close()
	}, win)
}

// suggestName picks the first required template missing from dir, or a
// generic fallback when the directory is already complete.
func suggestName(dir string) string {
	for _, p := range assets.Required() {
		if filepath.Dir(filepath.FromSlash(p)) != filepath.FromSlash(dir) {
			continue
		}
		if _, err := os.Stat(p); err != nil {
			return filepath.Base(p)
		}
	}
	return "template.png"
}
