package env

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// values field names are the environment variable names.
type values struct {
	SERVER_ADDR              string `default:"0.0.0.0"`
	SERVER_PORT              int    `default:"8080"`
	STORE_DRIVER             string `default:"redis"`
	REDIS_ADDR               string `default:"localhost:6379"`
	DB_SOURCE                string `default:""`
	API_BASE_URL             string `default:"http://localhost:8080"`
	HTTP_TIMEOUT_MS          int    `default:"15000"`
	HEALTH_CHECK_INTERVAL_MS int    `default:"5000"`
	LOG_LEVEL                string `default:"INFO"`
	LOG_FORMAT               string `default:"text"`
}

var Values = &values{}

type LookupFunc func(key string) (string, bool)

// Load reads .env when present, then fills Values from the process
// environment.
func Load() error {
	if err := godotenv.Load(); err != nil {
		slog.Debug("[CF:Env:Load] - No .env file, using process environment")
	}
	return parse(Values, os.LookupEnv)
}

// parse fills the struct target points to by reflection. A variable that is
// unset falls back to its default tag; fields with neither are reported
// together.
func parse(target any, lookup LookupFunc) error {
	v := reflect.ValueOf(target)
	if v.Kind() != reflect.Pointer || v.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("env: target must be a struct pointer, got %T", target)
	}
	v = v.Elem()
	t := v.Type()

	var missingVars []string

	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		fieldType := t.Field(i)
		name := fieldType.Name

		raw, ok := lookup(name)
		if !ok {
			def, hasDefault := fieldType.Tag.Lookup("default")
			if !hasDefault {
				missingVars = append(missingVars, name)
				continue
			}
			raw = def
		}

		if err := setField(field, raw); err != nil {
			slog.Warn("[CF:Env:Parse] - Invalid value, keeping default", "var", name, "value", raw, "error", err)
			if def, hasDefault := fieldType.Tag.Lookup("default"); hasDefault && raw != def {
				_ = setField(field, def)
			}
		}
	}

	if len(missingVars) > 0 {
		for i, v := range missingVars {
			missingVars[i] = "- " + v
		}
		return fmt.Errorf("some environment variables are missing:\n%s", strings.Join(missingVars, "\n"))
	}
	return nil
}

func setField(field reflect.Value, raw string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(raw)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			return err
		}
		field.SetInt(n)
	case reflect.Bool:
		b, err := strconv.ParseBool(strings.TrimSpace(raw))
		if err != nil {
			return err
		}
		field.SetBool(b)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return err
		}
		field.SetFloat(f)
	default:
		return fmt.Errorf("unsupported field kind %s", field.Kind())
	}
	return nil
}

func ShowEnvValues() {
	log.SetPrefix("Env: ")
	log.SetFlags(0)
	defer log.SetPrefix("")
	defer log.SetFlags(log.LstdFlags)
	defer log.Println(strings.Repeat("-", 72))

	log.Println(strings.Repeat("-", 72))
	v := reflect.ValueOf(Values).Elem()
	t := v.Type()

	maxLength := 0
	for i := 0; i < t.NumField(); i++ {
		if len(t.Field(i).Name) > maxLength {
			maxLength = len(t.Field(i).Name)
		}
	}

	format := fmt.Sprintf("%%-%ds: %%v", maxLength)
	for i := 0; i < v.NumField(); i++ {
		name := t.Field(i).Name
		val := v.Field(i).Interface()
		if name == "DB_SOURCE" && v.Field(i).String() != "" {
			val = "****"
		}
		log.Printf(format, name, val)
	}
}
