package service

import (
	"sort"

	"elpro/internal/app/store/entity"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// subtreeIDs возвращает id корня и всех его потомков
// Обход итеративный со множеством посещенных: поврежденные данные
// с циклом в children не должны вешать запрос
func subtreeIDs(rootID primitive.ObjectID, all []entity.Category) []primitive.ObjectID {
	byID := make(map[primitive.ObjectID]*entity.Category, len(all))
	for i := range all {
		byID[all[i].ID] = &all[i]
	}

	visited := make(map[primitive.ObjectID]bool)
	stack := []primitive.ObjectID{rootID}
	var result []primitive.ObjectID

	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[id] {
			continue
		}
		visited[id] = true

		cat, ok := byID[id]
		if !ok {
			// висячая ссылка в children, фиксится реконсайлером
			continue
		}
		result = append(result, cat.ID)
		stack = append(stack, cat.Children...)
	}

	return result
}

// isDescendant проверяет, находится ли candidate в поддереве root
func isDescendant(rootID, candidate primitive.ObjectID, all []entity.Category) bool {
	for _, id := range subtreeIDs(rootID, all) {
		if id == candidate {
			return true
		}
	}
	return false
}

// buildNavTree строит навигационное дерево из плоского списка категорий
// Корни и дети отсортированы по position, затем по дате создания
// Children никогда не nil: лист отдается с пустым массивом
func buildNavTree(all []entity.Category) []*entity.CategoryNode {
	byID := make(map[primitive.ObjectID]*entity.Category, len(all))
	for i := range all {
		byID[all[i].ID] = &all[i]
	}

	visited := make(map[primitive.ObjectID]bool)

	var build func(cat *entity.Category) *entity.CategoryNode
	build = func(cat *entity.Category) *entity.CategoryNode {
		node := &entity.CategoryNode{
			ID:       cat.ID,
			Name:     cat.Name,
			URL:      cat.URL,
			Icon:     cat.Icon,
			Position: cat.Position,
			Children: []*entity.CategoryNode{},
		}
		for _, childID := range cat.Children {
			child, ok := byID[childID]
			if !ok || visited[childID] {
				continue
			}
			visited[childID] = true
			node.Children = append(node.Children, build(child))
		}
		sortNodes(node.Children)
		return node
	}

	roots := []*entity.CategoryNode{}
	for i := range all {
		cat := &all[i]
		if cat.Parent != nil {
			continue
		}
		if visited[cat.ID] {
			continue
		}
		visited[cat.ID] = true
		roots = append(roots, build(cat))
	}
	sortNodes(roots)

	return roots
}

func sortNodes(nodes []*entity.CategoryNode) {
	sort.SliceStable(nodes, func(i, j int) bool {
		return nodes[i].Position < nodes[j].Position
	})
}

// diffIDs возвращает элементы прошлого набора, которых нет в новом, и наоборот
func diffIDs(old, new []primitive.ObjectID) (removed, added []primitive.ObjectID) {
	oldSet := make(map[primitive.ObjectID]bool, len(old))
	for _, id := range old {
		oldSet[id] = true
	}
	newSet := make(map[primitive.ObjectID]bool, len(new))
	for _, id := range new {
		newSet[id] = true
	}

	for _, id := range old {
		if !newSet[id] {
			removed = append(removed, id)
		}
	}
	for _, id := range new {
		if !oldSet[id] {
			added = append(added, id)
		}
	}
	return removed, added
}

func containsID(ids []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// parseObjectIDs конвертирует hex-строки в ObjectID, дубликаты схлопываются
func parseObjectIDs(hexIDs []string) ([]primitive.ObjectID, error) {
	seen := make(map[primitive.ObjectID]bool, len(hexIDs))
	result := make([]primitive.ObjectID, 0, len(hexIDs))
	for _, h := range hexIDs {
		id, err := primitive.ObjectIDFromHex(h)
		if err != nil {
			return nil, ErrInvalidID
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		result = append(result, id)
	}
	return result, nil
}
