package shopware

import "context"

// rootCategoryName is the shop's implicit top-level category; a freshly
// built chain is attached under it when none of the product's ancestors
// exist remotely yet.
const rootCategoryName = "Home"

// buildCategoryPayload turns an ancestor chain (root to leaf) into a single
// nested payload for the leaf category.
//
// The result is minimal-depth: when the leaf already exists it is referenced
// by ID and nothing else is built, regardless of ancestors. Otherwise the
// chain is climbed from the nearest parent towards the root, creating path
// segments by name until the first ancestor that resolves; that one is
// attached by ID and the climb stops, so existing remote structure is never
// re-created. If no ancestor exists, the chain is attached under the shop
// root; if even the root cannot be resolved, the chain is created top-level.
func buildCategoryPayload(ctx context.Context, r *Resolver, categorySet []string) (*CategoryPayload, error) {
	leaf := categorySet[len(categorySet)-1]

	id, err := r.CategoryID(ctx, leaf)
	if err != nil {
		return nil, err
	}
	if id != "" {
		return &CategoryPayload{ID: id}, nil
	}

	node := &CategoryPayload{Name: leaf}
	tail := node

	for i := len(categorySet) - 2; i >= 0; i-- {
		parentID, err := r.CategoryID(ctx, categorySet[i])
		if err != nil {
			return nil, err
		}
		if parentID != "" {
			tail.Parent = &CategoryPayload{ID: parentID}
			return node, nil
		}
		tail.Parent = &CategoryPayload{Name: categorySet[i]}
		tail = tail.Parent
	}

	rootID, err := r.CategoryID(ctx, rootCategoryName)
	if err != nil {
		return nil, err
	}
	if rootID != "" {
		tail.Parent = &CategoryPayload{ID: rootID}
	}
	return node, nil
}
