package config

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// StationConfig is the persisted result of station setup. StationID is
// opaque and only changes when setup is run again.
type StationConfig struct {
	Province  string `json:"province" validate:"required"`
	City      string `json:"city" validate:"required"`
	StationID string `json:"stationid" validate:"required"`
}

// Validate checks that every field is set.
func (c StationConfig) Validate() error {
	return validate.Struct(c)
}

// LoadStation reads the station config file. A missing file is reported as
// an error satisfying errors.Is(err, fs.ErrNotExist).
func LoadStation(path string) (StationConfig, error) {
	var cfg StationConfig

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse station config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid station config %s: %w", path, err)
	}
	return cfg, nil
}

// SaveStation writes the station config file, replacing any previous one.
func SaveStation(path string, cfg StationConfig) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid station config: %w", err)
	}

	var buf strings.Builder
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(cfg); err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, []byte(buf.String()), 0o644)
}

// PromptStation asks for the province and city names. Input is taken
// verbatim apart from the line terminator.
func PromptStation(in io.Reader, out io.Writer) (province, city string, err error) {
	r := bufio.NewReader(in)

	province, err = promptLine(r, out, "请输入省份: ")
	if err != nil {
		return "", "", err
	}
	city, err = promptLine(r, out, "请输入城市: ")
	if err != nil {
		return "", "", err
	}
	return province, city, nil
}

func promptLine(r *bufio.Reader, out io.Writer, prompt string) (string, error) {
	if _, err := fmt.Fprint(out, prompt); err != nil {
		return "", err
	}
	line, err := r.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
