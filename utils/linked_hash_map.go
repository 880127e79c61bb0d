package utils

import "container/list"

// LinkedHashMap is a list whose items may carry a collapse key. Pushing an
// item with a key already in the list replaces the old item.
type LinkedHashMap struct {
	list.List
	mapKeyToItem map[string]*list.Element
	mapItemToKey map[*list.Element]string
}

func NewLinkedHashMap() *LinkedHashMap {
	return &LinkedHashMap{
		mapKeyToItem: make(map[string]*list.Element),
		mapItemToKey: make(map[*list.Element]string),
	}
}

func (l *LinkedHashMap) PushBackWithCollapseKey(key string, value interface{}) *list.Element {

	listItem, exist := l.mapKeyToItem[key]

	if exist {
		listItem.Value = value
		l.MoveToBack(listItem)
	} else {
		listItem = l.PushBack(value)
		l.mapKeyToItem[key] = listItem
		l.mapItemToKey[listItem] = key
	}

	return listItem
}

func (l *LinkedHashMap) Remove(e *list.Element) interface{} {

	key, exist := l.mapItemToKey[e]

	if exist {
		delete(l.mapKeyToItem, key)
		delete(l.mapItemToKey, e)
	}

	return l.List.Remove(e)
}
