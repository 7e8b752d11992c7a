package identity

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// TerminalPrompt 返回一个在终端隐藏回显读取令牌的 Prompt；输入端不是
// 终端（管道、重定向）时退化为按行读取。
func TerminalPrompt(in *os.File, out io.Writer) func() (string, error) {
	return func() (string, error) {
		fmt.Fprint(out, "请粘贴 HF 令牌（输入不回显）: ")

		fd := int(in.Fd())
		if term.IsTerminal(fd) {
			data, err := term.ReadPassword(fd)
			fmt.Fprintln(out)
			if err != nil {
				return "", err
			}
			return strings.TrimSpace(string(data)), nil
		}

		line, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", err
		}
		return strings.TrimSpace(line), nil
	}
}
