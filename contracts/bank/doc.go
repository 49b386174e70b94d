/*
Package bank implements Bank contract which keeps custody of a single NEP-17
token on behalf of its users.

Users deposit tokens by transferring them to the contract address, the token
contract then calls onNEP17Payment and the sender gets credited. Transfers of
any other token are rejected. Withdrawal debits the internal balance and
transfers the same amount of tokens back to the user within the same
invocation, so the balance is never decreased without a payout.

The accepted token is set once on deployment and can't be changed. Deployment
data is an array with a single element: the token contract script hash.

# Contract notifications

Initialize notification. This notification is produced once on contract
deployment.

	Initialize:
	  - name: owner
	    type: Hash160
	  - name: token
	    type: Hash160

Deposit notification. This notification is produced when the accepted token
is transferred to the contract address.

	Deposit:
	  - name: from
	    type: Hash160
	  - name: amount
	    type: Integer

Withdraw notification. This notification is produced after tokens have been
transferred back to the user.

	Withdraw:
	  - name: user
	    type: Hash160
	  - name: amount
	    type: Integer

# Contract storage scheme

	| Key                        | Value                | Description                     |
	|----------------------------|----------------------|---------------------------------|
	| "config"                   | serialized Config    | owner and accepted token        |
	| "balances" + account hash  | Integer              | account balance                 |
	| "total"                    | Integer              | sum of all account balances     |
*/
package bank
