package resource

import (
	"strings"

	"github.com/nvellon/hal"
)

type Resource interface {
	LinkSelf() string
	Resource() *hal.Resource
	GetMap() hal.Entry
}

type ResourceList struct {
	Resources []Resource
	SelfLink  string
	NextLink  string
	PrevLink  string
}

func NewResourceList(list []Resource, selfLink, nextLink, prevLink string) *ResourceList {
	return &ResourceList{
		Resources: list,
		SelfLink:  selfLink,
		NextLink:  nextLink,
		PrevLink:  prevLink,
	}
}

func (l ResourceList) Resource() *hal.Resource {
	rl := hal.NewResource(l, l.LinkSelf())

	// records is always an array, even with zero or one record.
	records := make(hal.ResourceCollection, 0, len(l.Resources))
	for _, apiResource := range l.Resources {
		records = append(records, apiResource.Resource())
	}
	rl.EmbedCollection("records", records)
	if len(l.PrevLink) > 0 {
		rl.AddNewLink("prev", l.PrevLink)
	}
	if len(l.NextLink) > 0 {
		rl.AddNewLink("next", l.NextLink)
	}

	return rl
}

func (l ResourceList) LinkSelf() string {
	return l.SelfLink
}

func (l ResourceList) GetMap() hal.Entry {
	return hal.Entry{
		"count": len(l.Resources),
	}
}

func replaceID(url, key, value string) string {
	return strings.Replace(url, "{"+key+"}", value, -1)
}
