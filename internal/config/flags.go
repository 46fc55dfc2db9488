package config

import (
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/baalimago/zai/internal/utils"
)

// Flags holds the command line overrides. The zero value of each field means
// "not set", for the generation parameters nil does so that an explicit 0
// still gets through.
type Flags struct {
	ChatModel   string
	Token       string
	Port        string
	Raw         bool
	Stream      bool
	Temperature *float64
	MaxTokens   *int
}

// ParseFlags parses args and returns the flags together with the positional
// arguments left over. Short and long forms of a flag are mutually exclusive.
func ParseFlags(args []string, output io.Writer) (Flags, []string, error) {
	fs := flag.NewFlagSet("zai", flag.ContinueOnError)
	fs.SetOutput(output)

	cmShort := fs.String("cm", "", "Set the chat model to use. Mutually exclusive with chat-model flag.")
	cmLong := fs.String("chat-model", "", "Set the chat model to use. Mutually exclusive with cm flag.")
	tkShort := fs.String("tk", "", "Set the bearer token. Mutually exclusive with token flag.")
	tkLong := fs.String("token", "", "Set the bearer token. Mutually exclusive with tk flag.")
	pShort := fs.String("p", "", "Set the port of the proxy server. Mutually exclusive with port flag.")
	pLong := fs.String("port", "", "Set the port of the proxy server. Mutually exclusive with p flag.")
	tShort := fs.Float64("t", 0, "Set the sampling temperature. Mutually exclusive with temperature flag.")
	tLong := fs.Float64("temperature", 0, "Set the sampling temperature. Mutually exclusive with t flag.")
	mtShort := fs.Int("mt", 0, "Set the max amount of tokens. Mutually exclusive with max-tokens flag.")
	mtLong := fs.Int("max-tokens", 0, "Set the max amount of tokens. Mutually exclusive with mt flag.")
	rawShort := fs.Bool("r", false, "Set to true to print raw output, without role prefixes or reasoning.")
	rawLong := fs.Bool("raw", false, "Set to true to print raw output, without role prefixes or reasoning.")
	streamShort := fs.Bool("s", false, "Set to true to print the answer as it is streamed.")
	streamLong := fs.Bool("stream", false, "Set to true to print the answer as it is streamed.")

	if err := fs.Parse(args); err != nil {
		return Flags{}, nil, fmt.Errorf("failed to parse args: %w", err)
	}

	var f Flags
	var err error
	if f.ChatModel, err = utils.ReturnNonDefault(*cmShort, *cmLong, ""); err != nil {
		return Flags{}, nil, flagError(err, "cm", "chat-model")
	}
	if f.Token, err = utils.ReturnNonDefault(*tkShort, *tkLong, ""); err != nil {
		return Flags{}, nil, flagError(err, "tk", "token")
	}
	if f.Port, err = utils.ReturnNonDefault(*pShort, *pLong, ""); err != nil {
		return Flags{}, nil, flagError(err, "p", "port")
	}
	visited := map[string]bool{}
	fs.Visit(func(fl *flag.Flag) { visited[fl.Name] = true })
	if f.Temperature, err = visitedValue(visited, "t", "temperature", *tShort, *tLong); err != nil {
		return Flags{}, nil, flagError(err, "t", "temperature")
	}
	if f.MaxTokens, err = visitedValue(visited, "mt", "max-tokens", *mtShort, *mtLong); err != nil {
		return Flags{}, nil, flagError(err, "mt", "max-tokens")
	}
	f.Raw = *rawShort || *rawLong
	f.Stream = *streamShort || *streamLong
	return f, fs.Args(), nil
}

// visitedValue returns the value of whichever of the pair was given on the
// command line, nil if neither was.
func visitedValue[T any](visited map[string]bool, short, long string, shortVal, longVal T) (*T, error) {
	switch {
	case visited[short] && visited[long]:
		return nil, errors.New("both flags set")
	case visited[short]:
		return &shortVal, nil
	case visited[long]:
		return &longVal, nil
	}
	return nil, nil
}

func flagError(err error, short, long string) error {
	return fmt.Errorf("flags: '%v' and '%v', err: %w", short, long, err)
}

// ApplyFlags overrides conf with every flag which was set.
func ApplyFlags(conf *Configurations, f Flags) {
	if f.ChatModel != "" {
		conf.Model = f.ChatModel
	}
	if f.Token != "" {
		conf.Token = f.Token
	}
	if f.Port != "" {
		conf.Port = f.Port
	}
	if f.Temperature != nil {
		conf.Temperature = f.Temperature
	}
	if f.MaxTokens != nil {
		conf.MaxTokens = f.MaxTokens
	}
	if f.Raw {
		conf.Raw = true
	}
}
