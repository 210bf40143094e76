package blogservice

import (
	"regexp"

	"github.com/sushihentaime/agencysite/internal/common"
)

const (
	maxTags   = 20
	maxTagLen = 50
)

var URLRX = regexp.MustCompile(`^https?://[^\s]+$`)

func validateTitle(v *common.Validator, title string) {
	v.CheckRequired(title, "title", 200)
}

// validateContent only requires content once the post is published.
func validateContent(v *common.Validator, content string, published bool) {
	v.Check(!published || content != "", "content", "must be provided for a published post")
	v.Check(v.CheckStringLength(content, 0, 100000), "content", "must not be more than 100000 characters long")
}

func validateImageURL(v *common.Validator, url string) {
	v.Check(url == "" || URLRX.MatchString(url), "image_url", "must be a valid http or https URL")
	v.Check(v.CheckStringLength(url, 0, 500), "image_url", "must not be more than 500 characters long")
}

func validateTags(v *common.Validator, tags []string) {
	v.Check(len(tags) <= maxTags, "tags", "must not contain more than 20 tags")
	for _, tag := range tags {
		v.Check(tag != "", "tags", "must not contain empty tags")
		v.Check(v.CheckStringLength(tag, 0, maxTagLen), "tags", "must not contain tags longer than 50 characters")
	}
}

func validateBlog(v *common.Validator, b *Blog) {
	validateTitle(v, b.Title)
	validateContent(v, b.Content, b.IsPublished)
	v.CheckOptional(&b.Excerpt, "excerpt", 500)
	v.CheckOptional(&b.Author, "author", 100)
	v.CheckOptional(&b.Category, "category", 50)
	validateImageURL(v, b.ImageURL)
	validateTags(v, b.Tags)
	v.CheckOptional(&b.MetaDescription, "meta_description", 160)
}

func validateInt(v *common.Validator, num int, name string) {
	v.CheckID(num, name)
}

func normalizePage(limit, offset int) (int, int) {
	if limit < 1 {
		limit = 10
	}
	if limit > 50 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
