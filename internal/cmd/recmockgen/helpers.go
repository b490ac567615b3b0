package recmockgen

import (
	"log"
	"strings"
)

func logErrors(l *log.Logger, errs ...error) {
	for _, err := range errs {
		l.Println(strings.ReplaceAll(err.Error(), "\n", "\n\t"))
	}
}
