// Package ui implements the interactive terminal flow: picking a post,
// picking prompts and confirming.
package ui

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/julienpequegnot/bannergen/internal/selection"
)

// ErrCancelled is returned when the user quits or input ends.
var ErrCancelled = errors.New("cancelled by user")

const tableWidth = 100

type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

func (p *Prompter) Println(a ...any) {
	fmt.Fprintln(p.out, a...)
}

func (p *Prompter) ask(question string) (string, error) {
	fmt.Fprint(p.out, question)
	line, err := p.in.ReadString('\n')
	if err != nil {
		if !errors.Is(err, io.EOF) {
			return "", err
		}
		if line == "" {
			fmt.Fprintln(p.out)
			return "", ErrCancelled
		}
	}
	return strings.TrimSpace(line), nil
}

// SelectFile lists labels (file names or post titles) and returns the
// zero-based index of the chosen one.
func (p *Prompter) SelectFile(labels []string) (int, error) {
	rows := make([][]string, len(labels))
	for i, f := range labels {
		rows[i] = []string{strconv.Itoa(i + 1), f}
	}
	p.Println(Table(0, []string{"#", "Post"}, rows))

	for {
		answer, err := p.ask(fmt.Sprintf("Select a post (1-%d, q to quit): ", len(labels)))
		if err != nil {
			return 0, err
		}
		if strings.EqualFold(answer, "q") {
			return 0, ErrCancelled
		}

		n, err := strconv.Atoi(answer)
		if err != nil || n < 1 || n > len(labels) {
			p.Println(Failure(fmt.Sprintf("Please enter a number between 1 and %d", len(labels))))
			continue
		}
		return n - 1, nil
	}
}

// SelectPrompts lists prompts and returns the chosen zero-based indices in
// ascending order.
func (p *Prompter) SelectPrompts(prompts []string) ([]int, error) {
	rows := make([][]string, len(prompts))
	for i, pr := range prompts {
		rows[i] = []string{strconv.Itoa(i + 1), pr}
	}
	p.Println(Table(tableWidth, []string{"#", "Prompt"}, rows))
	p.Println(MutedStyle.Render("Select prompts: numbers (1,3,5), ranges (1-3), both (1,3-5,7), 'all' or 'q' to quit"))

	for {
		answer, err := p.ask("Selection: ")
		if err != nil {
			return nil, err
		}

		var indices []int
		switch strings.ToLower(answer) {
		case "q":
			return nil, ErrCancelled
		case "all":
			indices = selection.All(len(prompts))
		default:
			indices, err = selection.Parse(answer, len(prompts))
			if err != nil {
				p.Println(Failure(err.Error()))
				continue
			}
		}

		if len(indices) == 0 {
			p.Println(WarnStyle.Render("No prompts selected, try again"))
			continue
		}

		numbers := make([]string, len(indices))
		for i, idx := range indices {
			numbers[i] = strconv.Itoa(idx + 1)
		}
		p.Println(Success(fmt.Sprintf("Selected %d prompt(s): %s", len(indices), strings.Join(numbers, ", "))))
		return indices, nil
	}
}

// Confirm asks a yes/no question defaulting to yes.
func (p *Prompter) Confirm(question string) (bool, error) {
	answer, err := p.ask(question + " (Y/n): ")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "", "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
