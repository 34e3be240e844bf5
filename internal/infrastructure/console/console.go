package console

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"

	"booking-assistant/internal/domain/entity"
)

// Console renders the chat loop for the CLI transport.
type Console struct {
	reader *bufio.Reader
}

func New() *Console {
	return &Console{
		reader: bufio.NewReader(os.Stdin),
	}
}

func (c *Console) ReadLine() (string, error) {
	cyan := color.New(color.FgCyan, color.Bold)
	cyan.Print("you> ")

	line, err := c.reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func (c *Console) ShowReply(stage entity.Stage, reply string) {
	green := color.New(color.FgGreen, color.Bold)
	green.Print("assistant> ")
	fmt.Println(reply)

	dim := color.New(color.Faint)
	dim.Printf("           [stage: %s]\n\n", stageDisplay(stage))
}

func (c *Console) ShowError(err error) {
	red := color.New(color.FgRed, color.Bold)
	red.Printf("error: %v\n", err)
}

func (c *Console) ShowBanner() {
	bold := color.New(color.Bold)
	bold.Println("Medical appointment booking assistant")
	fmt.Println(`Type your message and press Enter. "restart" starts over, "exit" quits.`)
	fmt.Println()
}

func stageDisplay(stage entity.Stage) string {
	displays := map[entity.Stage]string{
		entity.StageGreeting:          "greeting",
		entity.StageProviderSelection: "choosing a provider",
		entity.StageFormAnalysis:      "reading the booking form",
		entity.StageInfoCollection:    "collecting details",
		entity.StageBooking:           "ready to book",
	}
	if d, ok := displays[stage]; ok {
		return d
	}
	return string(stage)
}
