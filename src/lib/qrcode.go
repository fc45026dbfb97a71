package lib

import (
	"fmt"
	"os"
	"path"

	"github.com/gosimple/slug"
	"github.com/yeqown/go-qrcode"
)

// GenerateGuestPass renders a guest's confirmation code as a QR image
// in the temp dir, for reprinting a pass at the door. The resulting
// code goes through the same server-side resolution as any other scan.
func GenerateGuestPass(guestName string, guestID uint, code string) (string, error) {
	qrc, err := qrcode.New(code)
	if err != nil {
		return "", err
	}
	tempdir := os.Getenv("TEMP_DIR")
	filename := fmt.Sprintf("%s-%d.jpeg", slug.Make(guestName), guestID)
	filepath := path.Join(tempdir, filename)
	if err := qrc.Save(filepath); err != nil {
		return "", err
	}
	return filepath, nil
}
