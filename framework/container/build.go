package container

import (
	"reflect"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var containerType = reflect.TypeFor[*Container]()

// instantiate calls a class constructor with its parameters resolved in
// order, then applies property injection.
func (c *Container) instantiate(token Token, p ClassProvider, r *resolution) (any, error) {
	fn := reflect.ValueOf(p.Constructor)
	ft := fn.Type()

	args := make([]reflect.Value, ft.NumIn())
	for i := range args {
		var explicit Token
		if i < len(p.Inject) {
			explicit = p.Inject[i]
		}
		arg, err := c.argument(token, i, ft.In(i), explicit, r)
		if err != nil {
			return nil, err
		}
		args[i] = arg
	}

	instance, err := invoke(token, fn, args)
	if err != nil {
		return nil, err
	}
	if err := c.injectProperties(token, instance, p.Properties, r); err != nil {
		return nil, err
	}
	return instance, nil
}

// invokeFactory resolves the declared dependencies in order and calls the
// factory with them.
func (c *Container) invokeFactory(token Token, p FactoryProvider, r *resolution) (any, error) {
	fn := reflect.ValueOf(p.Factory)
	ft := fn.Type()

	args := make([]reflect.Value, len(p.Inject))
	for i, dep := range p.Inject {
		instance, err := c.dependency(dep, r)
		if err != nil {
			return nil, err
		}
		arg, err := assignable(dep, instance, ft.In(i))
		if err != nil {
			return nil, err
		}
		args[i] = arg
	}
	return invoke(token, fn, args)
}

// argument resolves constructor parameter i of owner. An explicit token is
// always required to resolve; the static-type fallback is permissive unless
// the tree was built WithStrictInjection.
func (c *Container) argument(owner Token, i int, paramType reflect.Type, explicit Token, r *resolution) (reflect.Value, error) {
	if explicit != nil {
		instance, err := c.dependency(explicit, r)
		if err != nil {
			return reflect.Value{}, err
		}
		return assignable(explicit, instance, paramType)
	}

	var fallback Token = paramType
	if !c.Has(fallback) {
		if paramType == containerType {
			return reflect.ValueOf(c), nil
		}
		if _, ok := c.injectable(fallback); !ok {
			if c.tree.strict {
				return reflect.Value{}, ProviderNotFoundError{Token: fallback}
			}
			c.logger().WithFields(logrus.Fields{
				"token":     TokenName(owner),
				"parameter": i,
				"type":      paramType.String(),
			}).Warn("no provider for constructor parameter, injecting zero value")
			return reflect.Zero(paramType), nil
		}
	}

	instance, err := c.dependency(fallback, r)
	if err != nil {
		return reflect.Value{}, err
	}
	return assignable(fallback, instance, paramType)
}

// injectProperties assigns each bound token to an exported field of the
// struct instance points to.
func (c *Container) injectProperties(owner Token, instance any, props []Property, r *resolution) error {
	if len(props) == 0 {
		return nil
	}
	v := reflect.ValueOf(instance)
	if v.Kind() != reflect.Pointer || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		return InvalidProviderError{Token: owner, Reason: "property injection needs a pointer to a struct"}
	}
	s := v.Elem()
	for _, prop := range props {
		field := s.FieldByName(prop.Field)
		if !field.IsValid() || !field.CanSet() {
			return InvalidProviderError{Token: owner, Reason: "no exported field " + prop.Field}
		}
		token := prop.Token
		if token == nil {
			token = field.Type()
		}
		dep, err := c.dependency(token, r)
		if err != nil {
			return err
		}
		value, err := assignable(token, dep, field.Type())
		if err != nil {
			return err
		}
		field.Set(value)
	}
	return nil
}

// dependency resolves token, first registering it here when it is a
// self-injectable class this container cannot see yet.
func (c *Container) dependency(token Token, r *resolution) (any, error) {
	if !c.Has(token) {
		if cls, ok := c.injectable(token); ok {
			if err := c.Register(token, cls); err != nil {
				return nil, err
			}
		}
	}
	return c.resolve(token, r)
}

func (c *Container) injectable(token Token) (ClassProvider, bool) {
	if validToken(token) != nil {
		return ClassProvider{}, false
	}
	cls, ok := c.class(token)
	return cls, ok && cls.Injectable
}

func assignable(token Token, instance any, want reflect.Type) (reflect.Value, error) {
	if instance == nil {
		return reflect.Zero(want), nil
	}
	v := reflect.ValueOf(instance)
	if !v.Type().AssignableTo(want) {
		return reflect.Value{}, TypeMismatchError{Token: token, Expected: want.String(), Actual: v.Type().String()}
	}
	return v, nil
}

// invoke calls fn, turning a returned error or a panic into a
// ConstructionError.
func invoke(token Token, fn reflect.Value, args []reflect.Value) (result any, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = ConstructionError{Token: token, Cause: errors.Errorf("panic: %v", rec)}
		}
	}()

	out := fn.Call(args)
	if len(out) == 2 && !out[1].IsNil() {
		return nil, ConstructionError{Token: token, Cause: out[1].Interface().(error)}
	}
	return out[0].Interface(), nil
}
