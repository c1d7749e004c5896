package packet

import (
	"log"
	"reflect"
)

// A Tag is a metadata record attached to a packet. A packet holds at most
// one tag of each type.
type Tag any

// TagSet is an ordered collection of tags keyed by their type.
type TagSet struct {
	tags []Tag
}

func (s *TagSet) indexOf(t reflect.Type) int {
	for i, tag := range s.tags {
		if reflect.TypeOf(tag) == t {
			return i
		}
	}

	return -1
}

// NumTags returns the number of tags in the set.
func (s *TagSet) NumTags() int {
	return len(s.tags)
}

func (s *TagSet) clone() TagSet {
	tags := make([]Tag, len(s.tags))
	copy(tags, s.tags)

	return TagSet{tags: tags}
}

// A Tagged object carries a TagSet.
type Tagged interface {
	Tags() *TagSet
}

// AddTag attaches a tag. Adding a second tag of the same type panics.
func AddTag[T any](o Tagged, tag T) {
	s := o.Tags()
	if s.indexOf(reflect.TypeFor[T]()) >= 0 {
		log.Panicf("packet: tag %s is already present", reflect.TypeFor[T]())
	}

	s.tags = append(s.tags, tag)
}

// AddTagIfAbsent attaches a tag unless one of the same type is present. It
// returns false if the tag was not added.
func AddTagIfAbsent[T any](o Tagged, tag T) bool {
	s := o.Tags()
	if s.indexOf(reflect.TypeFor[T]()) >= 0 {
		return false
	}

	s.tags = append(s.tags, tag)

	return true
}

// FindTag returns the tag of type T, if any.
func FindTag[T any](o Tagged) (T, bool) {
	s := o.Tags()

	i := s.indexOf(reflect.TypeFor[T]())
	if i < 0 {
		var zero T
		return zero, false
	}

	return s.tags[i].(T), true
}

// GetTag returns the tag of type T and panics if it is absent.
func GetTag[T any](o Tagged) T {
	tag, found := FindTag[T](o)
	if !found {
		log.Panicf("packet: tag %s is not present", reflect.TypeFor[T]())
	}

	return tag
}

// HasTag checks if a tag of type T is present.
func HasTag[T any](o Tagged) bool {
	return o.Tags().indexOf(reflect.TypeFor[T]()) >= 0
}

// RemoveTag detaches and returns the tag of type T. It panics if the tag is
// absent.
func RemoveTag[T any](o Tagged) T {
	tag, found := RemoveTagIfPresent[T](o)
	if !found {
		log.Panicf("packet: tag %s is not present", reflect.TypeFor[T]())
	}

	return tag
}

// RemoveTagIfPresent detaches the tag of type T if it is present.
func RemoveTagIfPresent[T any](o Tagged) (T, bool) {
	s := o.Tags()

	i := s.indexOf(reflect.TypeFor[T]())
	if i < 0 {
		var zero T
		return zero, false
	}

	tag := s.tags[i].(T)
	s.tags = append(s.tags[:i], s.tags[i+1:]...)

	return tag, true
}

// StreamTag names the stream that a packet belongs to.
type StreamTag struct {
	Stream string
}

// ProtocolTag names the protocol of the outermost header.
type ProtocolTag struct {
	Protocol string
}

// DestinationTag carries the destination address of a packet.
type DestinationTag struct {
	Address string
}

// InterfaceTag names the interface a packet is sent or received on.
type InterfaceTag struct {
	InterfaceID int
}
