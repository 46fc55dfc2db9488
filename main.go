package main

import (
	"os"

	"github.com/baalimago/go_away_boilerplate/pkg/ancli"
)

const usage = `zai - signed, streaming client for the Z.AI chat service

Prerequisites:
  - None. A guest token is fetched on demand. Set ZAI_TOKEN to use your own.
  - (Optional) Set the NO_COLOR environment variable to disable ansi color output

Usage: zai [flags] <command>

Flags:
  -cm, -chat-model string      Set the chat model to use. (default is found in zaiConfig.json)
  -r, -raw bool                Set to true to print only the answer, no role prefix or reasoning. (default false)
  -s, -stream bool             Set to true to print the answer while it is streamed. (default false)
  -t, -temperature float       Set the sampling temperature.
  -mt, -max-tokens int         Set the max amount of tokens to generate.
  -tk, -token string           Set the bearer token. Overrides ZAI_TOKEN.
  -p, -port string             Set the port of the proxy server. (default is found in zaiConfig.json)

Commands:
  h|help                       Display this help message
  q|query <text>               Query the chat model with the given text
  m|models                     List the supported models
  s|serve                      Serve an OpenAI compatible API in front of the chat service
  v|version                    Print version info

Environment:
  ZAI_BASE_URL, ZAI_TOKEN, ZAI_DISABLE_ANONYMOUS, ZAI_SIGNING_SECRET, ZAI_MODEL,
  ZAI_FALLBACK_CHARSET, ZAI_API_KEY, PORT, DEFAULT_STREAM, THINK_TAGS_MODE,
  ZAI_CONFIG_HOME. A .env file in the working directory is loaded as well.

Examples:
  - zai q "What's the weather like in Tokyo?"
  - zai -cm GLM-4.6-Thinking q Explain monads
  - zai -s -cm GLM-4.5-Search q "latest Go release"
  - zai -p 8080 serve
`

func main() {
	ancli.SetupSlog()
	os.Exit(run(os.Args[1:]))
}
