package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/baalimago/zai/internal/config"
	"github.com/baalimago/zai/internal/utils"
	"github.com/baalimago/zai/pkg/zai"
)

var errEmptyPrompt = errors.New("found no prompt, set args")

func query(ctx context.Context, client *zai.Client, conf config.Configurations, streaming bool, args []string) error {
	prompt := strings.TrimSpace(strings.Join(args, " "))
	if prompt == "" {
		return errEmptyPrompt
	}
	req := zai.ChatRequest{
		Model:       conf.Model,
		Messages:    []zai.Message{{Role: "user", Content: prompt}},
		Stream:      streaming,
		Temperature: conf.Temperature,
		MaxTokens:   conf.MaxTokens,
	}
	res, err := client.Chat(ctx, req)
	if err != nil {
		return fmt.Errorf("failed to query: %w", err)
	}
	if res.Lines != nil {
		return printStream(res.Lines)
	}
	printResult(*res.Result, conf.Raw)
	return nil
}

func printStream(lines *zai.Lines) error {
	for line := range lines.All() {
		fmt.Print(zai.ContentFromChunk(line))
	}
	fmt.Println()
	if err := lines.Err(); err != nil {
		return fmt.Errorf("stream broke off: %w", err)
	}
	return nil
}

func printResult(res zai.Result, raw bool) {
	if raw {
		fmt.Println(res.Content)
		return
	}
	color := utils.UseColor(os.Stdout)
	if res.Reasoning != nil {
		utils.PrintSection(os.Stdout, "reasoning", *res.Reasoning, color)
	}
	utils.PrintSection(os.Stdout, "assistant", res.Content, color)
}
