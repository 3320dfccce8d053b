package osmosis

import (
	"fmt"
	"strings"

	"osmosis-chef/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

// markup hooks of the rendered quiz pages. The site ships these as part of
// its client bundle; they change rarely but are not a published contract.
const (
	selImageBlock = "div.image-block"
	selCaption    = ".caption"
	classBold     = "bold"
)

// ExtractMarkdown converts a question fragment into normalized Markdown.
// It walks the fragment's direct children in document order: children
// wrapping an image block become an image reference plus caption, all
// others become plain text paragraphs, bolded when the child carries the
// site's emphasis class. Blocks are separated by blank lines.
//
// A child wrapping an image block with no <img> inside fails with
// ErrMalformedContent unless skipMissingImages is set, in which case the
// child is dropped. More than one image block or image per child is
// ambiguous and always fails.
func ExtractMarkdown(fragment *goquery.Selection, skipMissingImages bool) (string, error) {
	var blocks []string
	var failure error

	fragment.Children().EachWithBreak(func(_ int, child *goquery.Selection) bool {
		imageBlock := child.Find(selImageBlock)
		if imageBlock.Length() > 1 {
			failure = fmt.Errorf(
				"%w: %d image blocks inside one child",
				ErrMalformedContent, imageBlock.Length(),
			)
			return false
		}

		if imageBlock.Length() == 1 {
			block, err := imageMarkdown(imageBlock, skipMissingImages)
			if err != nil {
				failure = err
				return false
			}
			if block != "" {
				blocks = append(blocks, block)
			}
			return true
		}

		text := htmlutil.CleanText(child)
		if text == "" {
			return true
		}
		if child.HasClass(classBold) {
			text = "**" + text + "**"
		}
		blocks = append(blocks, text)
		return true
	})
	if failure != nil {
		return "", failure
	}

	return strings.Join(blocks, "\n\n"), nil
}

// imageMarkdown renders one image block, returning "" when the image is
// missing and skipMissingImages allows dropping it.
func imageMarkdown(imageBlock *goquery.Selection, skipMissingImages bool) (string, error) {
	img := imageBlock.Find("img")
	if img.Length() > 1 {
		return "", fmt.Errorf(
			"%w: %d images inside one image block",
			ErrMalformedContent, img.Length(),
		)
	}
	if img.Length() == 0 {
		if skipMissingImages {
			return "", nil
		}
		return "", fmt.Errorf("%w: image block without an image", ErrMalformedContent)
	}

	src := img.AttrOr("src", "")
	caption := htmlutil.CleanText(imageBlock.Find(selCaption))
	if caption == "" {
		caption = img.AttrOr("alt", "")
	}

	block := fmt.Sprintf("![%s](%s)", caption, src)
	if caption != "" {
		block += "\n\n" + caption
	}
	return block, nil
}
