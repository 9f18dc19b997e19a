package hzd

import "fmt"

// CutsceneLinesError reports an update that changes the number of lines a
// cutscene holds for one language. Cutscene updates must keep every count.
type CutsceneLinesError struct {
	Language Language
	Expected int
	Got      int
}

func (e *CutsceneLinesError) Error() string {
	return fmt.Sprintf("cutscene lines for language %s don't match the original: expected %d got %d",
		e.Language, e.Expected, e.Got)
}
