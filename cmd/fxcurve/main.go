package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fxquant/fxlib/curve"
	"github.com/fxquant/fxlib/marketdata"
)

type curveInput struct {
	TaskID   string                  `json:"task_id,omitempty"`
	Currency string                  `json:"currency"`
	Method   string                  `json:"method"`
	Quotes   []marketdata.FeedRecord `json:"quotes"`
	Tenors   []float64               `json:"tenors,omitempty"`
}

type pillarOutput struct {
	Tenor          float64 `json:"tenor"`
	DiscountFactor float64 `json:"discount_factor"`
	ZeroRate       float64 `json:"zero_rate"`
	ForwardRate    float64 `json:"forward_rate"`
	Source         string  `json:"source,omitempty"`
}

type curveOutput struct {
	TaskID   string         `json:"task_id,omitempty"`
	Currency string         `json:"currency,omitempty"`
	Method   string         `json:"method,omitempty"`
	MaxTenor float64        `json:"max_tenor,omitempty"`
	Pillars  []pillarOutput `json:"pillars,omitempty"`
	Error    string         `json:"error,omitempty"`
}

func main() {
	inputPath := flag.String("input", "", "JSON input path (reads stdin if omitted)")
	help := flag.Bool("h", false, "Show help")
	flag.BoolVar(help, "help", false, "Show help")
	flag.Parse()

	if *help {
		fmt.Fprintln(os.Stderr, "Usage: fxcurve -input <path>")
		fmt.Fprintln(os.Stderr, "Bootstrap a zero curve from swap/futures/bond quotes.")
		return
	}

	path := strings.TrimSpace(*inputPath)
	if path == "" {
		if stat, err := os.Stdin.Stat(); err == nil && (stat.Mode()&os.ModeCharDevice) != 0 {
			fmt.Fprintln(os.Stderr, "Usage: fxcurve -input <path>")
			os.Exit(2)
		}
	}

	raw, err := readInput(path)
	if err != nil {
		exitError(fmt.Sprintf("read input: %v", err))
	}

	inputs, isArray, err := parseInputs(raw)
	if err != nil {
		exitError(fmt.Sprintf("parse JSON: %v", err))
	}

	hadError := false
	outputs := make([]curveOutput, 0, len(inputs))
	for _, in := range inputs {
		out, err := process(in)
		if err != nil {
			hadError = true
			outputs = append(outputs, curveOutput{TaskID: in.TaskID, Error: err.Error()})
			continue
		}
		outputs = append(outputs, *out)
	}

	if isArray {
		b, _ := json.Marshal(outputs)
		fmt.Println(string(b))
	} else {
		b, _ := json.Marshal(outputs[0])
		fmt.Println(string(b))
	}

	if hadError {
		os.Exit(1)
	}
}

func process(in curveInput) (*curveOutput, error) {
	if in.Currency == "" {
		return nil, fmt.Errorf("currency is required")
	}
	method := curve.MethodQLLogLinear
	if in.Method != "" {
		m, ok := curve.ParseMethod(strings.ToUpper(in.Method))
		if !ok {
			return nil, fmt.Errorf("unknown method %q", in.Method)
		}
		method = m
	}

	quotes, err := marketdata.Normalize(in.Quotes)
	if err != nil {
		return nil, err
	}
	c, err := curve.Bootstrap(in.Currency, quotes, method)
	if err != nil {
		return nil, err
	}

	out := &curveOutput{
		TaskID:   in.TaskID,
		Currency: c.Currency(),
		Method:   string(c.Method()),
		MaxTenor: c.MaxTenor(),
	}
	if len(in.Tenors) > 0 {
		for _, t := range in.Tenors {
			out.Pillars = append(out.Pillars, pillarOutput{
				Tenor:          t,
				DiscountFactor: c.DF(t),
				ZeroRate:       c.ZeroRate(t),
				ForwardRate:    c.ForwardRate(t),
			})
		}
		return out, nil
	}
	for _, p := range c.Pillars() {
		out.Pillars = append(out.Pillars, pillarOutput{
			Tenor:          p.Tenor,
			DiscountFactor: p.DF,
			ZeroRate:       p.Zero,
			ForwardRate:    c.ForwardRate(p.Tenor),
			Source:         string(p.Source),
		})
	}
	return out, nil
}

func readInput(path string) ([]byte, error) {
	if path != "" {
		return os.ReadFile(path)
	}
	return io.ReadAll(os.Stdin)
}

func parseInputs(raw []byte) ([]curveInput, bool, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, false, fmt.Errorf("empty input")
	}
	if trimmed[0] == '[' {
		var inputs []curveInput
		if err := json.Unmarshal(trimmed, &inputs); err != nil {
			return nil, true, err
		}
		if len(inputs) == 0 {
			return nil, true, fmt.Errorf("empty input array")
		}
		return inputs, true, nil
	}
	var input curveInput
	if err := json.Unmarshal(trimmed, &input); err != nil {
		return nil, false, err
	}
	return []curveInput{input}, false, nil
}

func exitError(msg string) {
	b, _ := json.Marshal(curveOutput{Error: msg})
	fmt.Println(string(b))
	os.Exit(1)
}
