//go:build js && wasm

package main

import (
	"context"
	"encoding/json"
	"errors"
	"syscall/js"

	"github.com/chemcanvas/chemcanvas/backend-go/internal/engine"
	"github.com/chemcanvas/chemcanvas/backend-go/internal/geom"
	"github.com/chemcanvas/chemcanvas/backend-go/internal/interaction"
	"github.com/chemcanvas/chemcanvas/backend-go/internal/recognition"
	"github.com/chemcanvas/chemcanvas/backend-go/internal/tool"
)

const (
	defaultWidth  = 1200
	defaultHeight = 800
)

var (
	eng     *engine.Engine
	session *recognition.Session
)

func main() {
	var err error
	eng, err = engine.NewEngine(defaultWidth, defaultHeight)
	if err != nil {
		panic(err)
	}

	session = recognition.NewSession(recognition.NewHTTPClient(recognitionURL(), nil))

	// Create the engine API object
	canvasEngine := js.Global().Get("Object").New()

	// --- Commands (frontend → backend) ---
	canvasEngine.Set("pointerDown", js.FuncOf(pointerDown))
	canvasEngine.Set("pointerMove", js.FuncOf(pointerMove))
	canvasEngine.Set("pointerUp", js.FuncOf(pointerUp))
	canvasEngine.Set("cancel", js.FuncOf(cancel))
	canvasEngine.Set("setStyle", js.FuncOf(setStyle))
	canvasEngine.Set("setBoundingRect", js.FuncOf(setBoundingRect))
	canvasEngine.Set("resize", js.FuncOf(resize))
	canvasEngine.Set("zoomIn", js.FuncOf(zoomIn))
	canvasEngine.Set("zoomOut", js.FuncOf(zoomOut))
	canvasEngine.Set("resetZoom", js.FuncOf(resetZoom))
	canvasEngine.Set("toggleGrid", js.FuncOf(toggleGrid))
	canvasEngine.Set("setBackground", js.FuncOf(setBackground))
	canvasEngine.Set("clear", js.FuncOf(clearCanvas))
	canvasEngine.Set("loadShapes", js.FuncOf(loadShapes))
	canvasEngine.Set("loadSample", js.FuncOf(loadSample))
	canvasEngine.Set("setCorrections", js.FuncOf(setCorrections))
	canvasEngine.Set("clearCorrections", js.FuncOf(clearCorrections))
	canvasEngine.Set("analyze", js.FuncOf(analyze))
	canvasEngine.Set("convert", js.FuncOf(convert))

	// --- Queries (frontend ← backend) ---
	canvasEngine.Set("render", js.FuncOf(render))
	canvasEngine.Set("takeInk", js.FuncOf(takeInk))
	canvasEngine.Set("snapshot", js.FuncOf(snapshot))
	canvasEngine.Set("hitTest", js.FuncOf(hitTest))
	canvasEngine.Set("getSelectionBounds", js.FuncOf(getSelectionBounds))
	canvasEngine.Set("getShapes", js.FuncOf(getShapes))
	canvasEngine.Set("getView", js.FuncOf(getView))
	canvasEngine.Set("getState", js.FuncOf(getState))
	canvasEngine.Set("getSelection", js.FuncOf(getSelection))
	canvasEngine.Set("getCorrections", js.FuncOf(getCorrections))

	// Register on global scope
	js.Global().Set("chemCanvasEngine", canvasEngine)

	// Signal that WASM is ready
	js.Global().Set("chemCanvasWasmReady", js.ValueOf(true))

	// Keep Go runtime alive
	select {}
}

// recognitionURL is the server the page came from unless the page sets
// chemCanvasRecognitionURL before loading the module.
func recognitionURL() string {
	if u := js.Global().Get("chemCanvasRecognitionURL"); u.Type() == js.TypeString {
		return u.String()
	}
	return js.Global().Get("location").Get("origin").String()
}

func errorResult(err error) interface{} {
	return js.ValueOf(map[string]interface{}{"error": err.Error()})
}

func okResult() interface{} {
	return js.ValueOf(map[string]interface{}{"ok": true})
}

// --- Command Handlers ---

// pointerArgs reads a DOM PointerEvent (or any object with the same fields).
func pointerArgs(args []js.Value) (x, y float64, button int, mods interaction.Modifiers, device interaction.Device, ok bool) {
	if len(args) < 1 || args[0].Type() != js.TypeObject {
		return 0, 0, 0, mods, device, false
	}
	ev := args[0]
	x = ev.Get("clientX").Float()
	y = ev.Get("clientY").Float()
	if b := ev.Get("button"); b.Type() == js.TypeNumber {
		button = b.Int()
	}
	mods = interaction.Modifiers{
		Shift: ev.Get("shiftKey").Truthy(),
		Ctrl:  ev.Get("ctrlKey").Truthy(),
		Meta:  ev.Get("metaKey").Truthy(),
		Alt:   ev.Get("altKey").Truthy(),
	}
	if pt := ev.Get("pointerType"); pt.Type() == js.TypeString {
		device = interaction.ParseDevice(pt.String())
	}
	return x, y, button, mods, device, true
}

type pointerHandler func(x, y float64, button int, mods interaction.Modifiers, device interaction.Device) error

func dispatchPointer(handle pointerHandler, args []js.Value) interface{} {
	x, y, button, mods, device, ok := pointerArgs(args)
	if !ok {
		return nil
	}
	if err := handle(x, y, button, mods, device); err != nil {
		return errorResult(err)
	}
	return nil
}

func pointerDown(this js.Value, args []js.Value) interface{} {
	return dispatchPointer(eng.PointerDown, args)
}

func pointerMove(this js.Value, args []js.Value) interface{} {
	return dispatchPointer(eng.PointerMove, args)
}

func pointerUp(this js.Value, args []js.Value) interface{} {
	return dispatchPointer(eng.PointerUp, args)
}

func cancel(this js.Value, args []js.Value) interface{} {
	eng.Cancel()
	return nil
}

func setStyle(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf(map[string]interface{}{"error": "missing style JSON"})
	}
	var style tool.Style
	if err := json.Unmarshal([]byte(args[0].String()), &style); err != nil {
		return errorResult(err)
	}
	eng.SetStyle(style)
	return okResult()
}

func setBoundingRect(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 || args[0].Type() != js.TypeObject {
		return nil
	}
	r := args[0]
	eng.SetBoundingRect(geom.Rect{
		X:      r.Get("left").Float(),
		Y:      r.Get("top").Float(),
		Width:  r.Get("width").Float(),
		Height: r.Get("height").Float(),
	})
	return nil
}

func resize(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return nil
	}
	if err := eng.Resize(args[0].Int(), args[1].Int()); err != nil {
		return errorResult(err)
	}
	return okResult()
}

func zoomIn(this js.Value, args []js.Value) interface{} {
	eng.ZoomIn()
	return js.ValueOf(eng.View().Zoom)
}

func zoomOut(this js.Value, args []js.Value) interface{} {
	eng.ZoomOut()
	return js.ValueOf(eng.View().Zoom)
}

func resetZoom(this js.Value, args []js.Value) interface{} {
	eng.ResetZoom()
	return js.ValueOf(eng.View().Zoom)
}

func toggleGrid(this js.Value, args []js.Value) interface{} {
	eng.ToggleGrid()
	return js.ValueOf(eng.View().Grid)
}

func setBackground(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return nil
	}
	if err := eng.SetBackground(args[0].String()); err != nil {
		return errorResult(err)
	}
	return okResult()
}

func clearCanvas(this js.Value, args []js.Value) interface{} {
	eng.Clear()
	return nil
}

func loadShapes(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf(map[string]interface{}{"error": "missing shapes JSON"})
	}
	if err := eng.LoadShapes(args[0].String()); err != nil {
		return errorResult(err)
	}
	return okResult()
}

func loadSample(this js.Value, args []js.Value) interface{} {
	if err := eng.LoadSample(); err != nil {
		return errorResult(err)
	}
	return okResult()
}

func setCorrections(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		eng.ClearCorrections()
		return nil
	}
	if err := eng.SetCorrectionsJSON(args[0].String()); err != nil {
		return errorResult(err)
	}
	return okResult()
}

func clearCorrections(this js.Value, args []js.Value) interface{} {
	eng.ClearCorrections()
	return nil
}

// promise runs fn off the event loop. Blocking inside a js.FuncOf callback
// would deadlock the runtime.
func promise(fn func() (interface{}, error)) js.Value {
	var executor js.Func
	executor = js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		resolve, reject := args[0], args[1]
		go func() {
			defer executor.Release()
			v, err := fn()
			if err != nil {
				reject.Invoke(js.Global().Get("Error").New(err.Error()))
				return
			}
			resolve.Invoke(v)
		}()
		return nil
	})
	return js.Global().Get("Promise").New(executor)
}

// superseded resolves a replaced request without touching the overlay.
func superseded() interface{} {
	return js.ValueOf(map[string]interface{}{"superseded": true})
}

func analyze(this js.Value, args []js.Value) interface{} {
	subject := ""
	if len(args) > 0 && args[0].Type() == js.TypeString {
		subject = args[0].String()
	}
	return promise(func() (interface{}, error) {
		res, err := eng.Analyze(context.Background(), session, subject)
		if errors.Is(err, recognition.ErrSuperseded) {
			return superseded(), nil
		} else if err != nil {
			return nil, err
		}
		data, err := json.Marshal(res)
		if err != nil {
			return nil, err
		}
		return js.ValueOf(string(data)), nil
	})
}

func convert(this js.Value, args []js.Value) interface{} {
	return promise(func() (interface{}, error) {
		res, err := eng.Convert(context.Background(), session)
		if errors.Is(err, recognition.ErrSuperseded) {
			return superseded(), nil
		} else if err != nil {
			return nil, err
		}
		data, err := json.Marshal(res)
		if err != nil {
			return nil, err
		}
		return js.ValueOf(string(data)), nil
	})
}

// --- Query Handlers ---

func render(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.Render())
}

func takeInk(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.TakeInk())
}

// snapshot returns the composed canvas as a Uint8Array of PNG bytes.
func snapshot(this js.Value, args []js.Value) interface{} {
	data, err := eng.Snapshot()
	if err != nil {
		return errorResult(err)
	}
	out := js.Global().Get("Uint8Array").New(len(data))
	js.CopyBytesToJS(out, data)
	return out
}

func hitTest(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return js.ValueOf("")
	}
	x := args[0].Float()
	y := args[1].Float()
	return js.ValueOf(eng.HitTest(x, y))
}

func getSelectionBounds(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.GetSelectionBounds())
}

func getShapes(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.Shapes())
}

func getView(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.GetView())
}

func getState(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.State())
}

func getSelection(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.Selected())
}

func getCorrections(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.Corrections())
}
