package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fxquant/fxlib/pricing"
)

// Rates and volatility arrive in percent, matching desk quoting. Strike and
// barrier levels may be percent of spot when the matching *_type field says
// "percent".
type priceInput struct {
	TaskID        string  `json:"task_id,omitempty"`
	OptionType    string  `json:"option_type"`
	Spot          float64 `json:"spot"`
	Strike        float64 `json:"strike,omitempty"`
	StrikeType    string  `json:"strike_type,omitempty"`
	Barrier       float64 `json:"barrier,omitempty"`
	SecondBarrier float64 `json:"second_barrier,omitempty"`
	BarrierType   string  `json:"barrier_type,omitempty"`
	Rebate        float64 `json:"rebate,omitempty"`
	PayAtTouch    bool    `json:"pay_at_touch,omitempty"`
	Maturity      float64 `json:"maturity"`
	Volatility    float64 `json:"volatility"`
	DomesticRate  float64 `json:"domestic_rate"`
	ForeignRate   float64 `json:"foreign_rate"`
	Greeks        bool    `json:"greeks,omitempty"`
}

type priceOutput struct {
	TaskID      string          `json:"task_id,omitempty"`
	OptionType  string          `json:"option_type,omitempty"`
	Price       float64         `json:"price,omitempty"`
	PriceInBase float64         `json:"price_in_base,omitempty"`
	Method      string          `json:"method,omitempty"`
	Greeks      *pricing.Greeks `json:"greeks,omitempty"`
	Error       string          `json:"error,omitempty"`
}

func main() {
	inputPath := flag.String("input", "", "JSON input path (reads stdin if omitted)")
	help := flag.Bool("h", false, "Show help")
	flag.BoolVar(help, "help", false, "Show help")
	flag.Parse()

	if *help {
		fmt.Fprintln(os.Stderr, "Usage: fxprice -input <path>")
		fmt.Fprintln(os.Stderr, "Price FX vanilla, barrier, and digital options in closed form.")
		return
	}

	path := strings.TrimSpace(*inputPath)
	if path == "" {
		if stat, err := os.Stdin.Stat(); err == nil && (stat.Mode()&os.ModeCharDevice) != 0 {
			fmt.Fprintln(os.Stderr, "Usage: fxprice -input <path>")
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
	outputs := make([]priceOutput, 0, len(inputs))
	for _, in := range inputs {
		out, err := process(in)
		if err != nil {
			hadError = true
			outputs = append(outputs, priceOutput{TaskID: in.TaskID, Error: err.Error()})
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

func process(in priceInput) (*priceOutput, error) {
	kind := pricing.Kind(strings.ToUpper(strings.TrimSpace(in.OptionType)))
	strikePct := strings.EqualFold(in.StrikeType, "percent")
	barrierPct := strings.EqualFold(in.BarrierType, "percent")
	vol := in.Volatility / 100
	rd := in.DomesticRate / 100
	rf := in.ForeignRate / 100

	var (
		result pricing.Result
		greeks pricing.Greeks
		err    error
	)
	switch {
	case kind.IsVanilla():
		var o pricing.VanillaOption
		o, err = pricing.NewVanillaOption(kind, in.Spot, in.Strike, strikePct, in.Maturity, vol, rd, rf)
		if err != nil {
			return nil, err
		}
		if result, err = pricing.PriceVanilla(o); err != nil {
			return nil, err
		}
		if in.Greeks {
			if greeks, err = pricing.VanillaGreeks(o); err != nil {
				return nil, err
			}
			result.Greeks = &greeks
		}
	case kind.IsBarrier():
		var o pricing.BarrierOption
		o, err = pricing.NewBarrierOption(kind, in.Spot, in.Strike, strikePct,
			in.Barrier, in.SecondBarrier, barrierPct, in.Maturity, vol, rd, rf)
		if err != nil {
			return nil, err
		}
		if result, err = pricing.PriceBarrier(o); err != nil {
			return nil, err
		}
		if in.Greeks {
			if greeks, err = pricing.BarrierGreeks(o); err != nil {
				return nil, err
			}
			result.Greeks = &greeks
		}
	case kind.IsDigital():
		rebate := in.Rebate
		if rebate == 0 {
			rebate = 1
		}
		var o pricing.DigitalOption
		o, err = pricing.NewDigitalOption(kind, in.Spot, in.Barrier, in.SecondBarrier, barrierPct,
			rebate, in.PayAtTouch, in.Maturity, vol, rd, rf)
		if err != nil {
			return nil, err
		}
		if result, err = pricing.PriceDigital(o); err != nil {
			return nil, err
		}
		if in.Greeks {
			if greeks, err = pricing.DigitalGreeks(o); err != nil {
				return nil, err
			}
			result.Greeks = &greeks
		}
	default:
		return nil, fmt.Errorf("unknown option_type %q", in.OptionType)
	}

	return &priceOutput{
		TaskID:      in.TaskID,
		OptionType:  string(kind),
		Price:       result.Price,
		PriceInBase: result.PriceInBase,
		Method:      result.Method,
		Greeks:      result.Greeks,
	}, nil
}

func readInput(path string) ([]byte, error) {
	if path != "" {
		return os.ReadFile(path)
	}
	return io.ReadAll(os.Stdin)
}

func parseInputs(raw []byte) ([]priceInput, bool, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, false, fmt.Errorf("empty input")
	}
	if trimmed[0] == '[' {
		var inputs []priceInput
		if err := json.Unmarshal(trimmed, &inputs); err != nil {
			return nil, true, err
		}
		if len(inputs) == 0 {
			return nil, true, fmt.Errorf("empty input array")
		}
		return inputs, true, nil
	}
	var input priceInput
	if err := json.Unmarshal(trimmed, &input); err != nil {
		return nil, false, err
	}
	return []priceInput{input}, false, nil
}

func exitError(msg string) {
	b, _ := json.Marshal(priceOutput{Error: msg})
	fmt.Println(string(b))
	os.Exit(1)
}
